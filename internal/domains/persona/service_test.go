package persona

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
	"github.com/quickfixlabs/voicedemo/pkg/assistant"
)

type fakeCompleter struct {
	lastReq  assistant.Request
	response string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, req assistant.Request) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompleter) Name() string { return "fake" }

func TestGeneratePersonaPromptShape(t *testing.T) {
	completer := &fakeCompleter{response: `{"name":"A","age":30,"issue":"x","emotion":"angry","priority":5}`}
	s := NewSynthesizer(completer, 0.7, Logger.New(true))

	raw, err := s.GeneratePersona(context.Background(), "waited 3 hours for an emergency callout")
	if err != nil {
		t.Fatalf("GeneratePersona failed: %v", err)
	}
	if raw != completer.response {
		t.Errorf("raw completion passed through unmodified, got %q", raw)
	}

	if !strings.Contains(completer.lastReq.System, "JSON persona") {
		t.Errorf("system prompt should constrain output to a JSON persona, got %q", completer.lastReq.System)
	}
	if !strings.Contains(completer.lastReq.User, "waited 3 hours") {
		t.Errorf("user message should carry the complaint, got %q", completer.lastReq.User)
	}
	if completer.lastReq.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", completer.lastReq.Temperature)
	}
}

func TestGeneratePersonaUpstreamFailure(t *testing.T) {
	completer := &fakeCompleter{err: faults.Upstreamf("rate limited")}
	s := NewSynthesizer(completer, 0.7, Logger.New(true))

	_, err := s.GeneratePersona(context.Background(), "complaint")
	if !errors.Is(err, faults.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
