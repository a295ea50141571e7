package persona

import (
	"encoding/json"
	"strings"

	"github.com/quickfixlabs/voicedemo/internal/faults"
)

// Persona is the synthetic customer profile generated from a complaint
// narrative. Immutable once parsed; owned by the session that generated it.
type Persona struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Issue    string `json:"issue"`
	Emotion  string `json:"emotion"`
	Priority int    `json:"priority"`
}

// Validate checks field presence and ranges. Out-of-range values are
// rejected, never clamped.
func (p Persona) Validate() error {
	if p.Name == "" {
		return faults.Validationf("persona is missing a name")
	}
	if p.Issue == "" {
		return faults.Validationf("persona is missing an issue")
	}
	if p.Age <= 0 {
		return faults.Validationf("persona age must be a positive integer, got %d", p.Age)
	}
	if p.Priority < 1 || p.Priority > 10 {
		return faults.Validationf("persona priority must be in 1..10, got %d", p.Priority)
	}
	return nil
}

// Parse decodes a raw LLM completion into a Persona. Models routinely wrap
// JSON in markdown code fences, so those are stripped before decoding.
// Anything that doesn't decode into the expected shape, or fails Validate,
// is a validation error: the provider responded but the content is unusable.
func Parse(raw string) (*Persona, error) {
	cleaned := stripFences(strings.TrimSpace(raw))

	var p Persona
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&p); err != nil {
		return nil, faults.Validationf("persona completion is not valid JSON: %v", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
