package persona

import (
	"context"
	"fmt"

	"github.com/quickfixlabs/voicedemo/pkg/Logger"
	"github.com/quickfixlabs/voicedemo/pkg/assistant"
)

const systemPrompt = "Create a JSON persona with: name, age, issue, emotion, priority (1-10). Be concise."

// Synthesizer turns a complaint narrative into a persona completion via one
// LLM call. It returns the raw completion text; parsing and validation are
// the caller's job (see Parse).
type Synthesizer struct {
	completer   assistant.Completer
	temperature float64
	logger      *Logger.Logger
}

func NewSynthesizer(completer assistant.Completer, temperature float64, logger *Logger.Logger) *Synthesizer {
	return &Synthesizer{
		completer:   completer,
		temperature: temperature,
		logger:      logger,
	}
}

// GeneratePersona issues one completion request. A non-zero temperature keeps
// persona variety across calls. Upstream failures are surfaced as-is, no retry.
func (s *Synthesizer) GeneratePersona(ctx context.Context, complaint string) (string, error) {
	raw, err := s.completer.Complete(ctx, assistant.Request{
		System:      systemPrompt,
		User:        fmt.Sprintf("Complaint: %s", complaint),
		Temperature: s.temperature,
	})
	if err != nil {
		return "", err
	}
	s.logger.Debugf("persona completion via %s: %d bytes", s.completer.Name(), len(raw))
	return raw, nil
}
