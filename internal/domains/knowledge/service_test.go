package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
	"github.com/quickfixlabs/voicedemo/pkg/assistant"
)

type fakeCompleter struct {
	lastReq assistant.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req assistant.Request) (string, error) {
	f.lastReq = req
	return "We offer 24/7 emergency callouts.", nil
}

func (f *fakeCompleter) Name() string { return "fake" }

func writeKnowledgeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "company_rag.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAskGroundsPromptInDocument(t *testing.T) {
	path := writeKnowledgeFile(t, `{"services": [{"name": "Emergency Plumbing", "base_price": 150}]}`)
	completer := &fakeCompleter{}

	s, err := NewService(path, completer, Logger.New(true))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	answer, err := s.Ask(context.Background(), "Do you handle emergencies?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer == "" {
		t.Error("expected a non-empty answer")
	}

	if !strings.Contains(completer.lastReq.System, "Emergency Plumbing") {
		t.Errorf("system prompt should embed the knowledge document, got %q", completer.lastReq.System)
	}
	if completer.lastReq.User != "Do you handle emergencies?" {
		t.Errorf("user message should be the question, got %q", completer.lastReq.User)
	}
}

func TestNewServiceMissingFile(t *testing.T) {
	_, err := NewService(filepath.Join(t.TempDir(), "nope.json"), &fakeCompleter{}, Logger.New(true))
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewServiceMalformedFile(t *testing.T) {
	path := writeKnowledgeFile(t, "not json at all")
	_, err := NewService(path, &fakeCompleter{}, Logger.New(true))
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
