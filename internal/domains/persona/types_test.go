package persona

import (
	"errors"
	"testing"

	"github.com/quickfixlabs/voicedemo/internal/faults"
)

func TestParseValidPersona(t *testing.T) {
	raw := `{"name": "Margaret Hill", "age": 58, "issue": "flooded basement", "emotion": "furious", "priority": 9}`

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.Name != "Margaret Hill" {
		t.Errorf("expected name Margaret Hill, got %q", p.Name)
	}
	if p.Age != 58 {
		t.Errorf("expected age 58, got %d", p.Age)
	}
	if p.Priority != 9 {
		t.Errorf("expected priority 9, got %d", p.Priority)
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"name\": \"Tom\", \"age\": 41, \"issue\": \"leak\", \"emotion\": \"anxious\", \"priority\": 5}\n```"

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed on fenced JSON: %v", err)
	}
	if p.Name != "Tom" {
		t.Errorf("expected name Tom, got %q", p.Name)
	}
}

func TestParseRejectsNonJSON(t *testing.T) {
	_, err := Parse("I'm sorry, I can't create a persona for that.")
	if err == nil {
		t.Fatal("expected error for non-JSON completion")
	}
	if !errors.Is(err, faults.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestValidateRanges(t *testing.T) {
	cases := []struct {
		name    string
		persona Persona
		wantErr bool
	}{
		{"valid", Persona{Name: "A", Age: 30, Issue: "x", Emotion: "angry", Priority: 1}, false},
		{"priority too low", Persona{Name: "A", Age: 30, Issue: "x", Emotion: "angry", Priority: 0}, true},
		{"priority too high", Persona{Name: "A", Age: 30, Issue: "x", Emotion: "angry", Priority: 11}, true},
		{"negative age", Persona{Name: "A", Age: -5, Issue: "x", Emotion: "angry", Priority: 5}, true},
		{"zero age", Persona{Name: "A", Age: 0, Issue: "x", Emotion: "angry", Priority: 5}, true},
		{"missing name", Persona{Age: 30, Issue: "x", Emotion: "angry", Priority: 5}, true},
		{"missing issue", Persona{Name: "A", Age: 30, Emotion: "angry", Priority: 5}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.persona.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected a validation error")
			}
			if tc.wantErr && !errors.Is(err, faults.ErrValidation) {
				t.Errorf("expected validation category, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseNeverClamps(t *testing.T) {
	// An out-of-range priority must be rejected, not silently clamped.
	_, err := Parse(`{"name": "A", "age": 30, "issue": "x", "emotion": "angry", "priority": 12}`)
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error for priority 12, got %v", err)
	}
}
