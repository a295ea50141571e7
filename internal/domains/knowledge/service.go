package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
	"github.com/quickfixlabs/voicedemo/pkg/assistant"
)

const systemPromptFmt = `You are QuickFix Plumbing's AI assistant.

COMPLETE COMPANY KNOWLEDGE:
%s

Answer questions about services, pricing, availability using ONLY this information.`

// Service answers free-text questions against a fixed company knowledge
// document. Entirely independent of demo session state.
type Service struct {
	completer assistant.Completer
	document  string
	logger    *Logger.Logger
}

// NewService loads the knowledge file once at startup. A missing or
// malformed file is a configuration error; there is no degraded mode.
func NewService(path string, completer assistant.Completer, logger *Logger.Logger) (*Service, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.Configurationf("knowledge file %s: %v", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, faults.Configurationf("knowledge file %s is not valid JSON: %v", path, err)
	}
	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("re-encoding knowledge document: %w", err)
	}

	return &Service{
		completer: completer,
		document:  string(pretty),
		logger:    logger,
	}, nil
}

// Ask runs one grounded completion over the knowledge document.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	answer, err := s.completer.Complete(ctx, assistant.Request{
		System: fmt.Sprintf(systemPromptFmt, s.document),
		User:   question,
	})
	if err != nil {
		return "", err
	}
	s.logger.Debugf("answered company question (%d chars)", len(answer))
	return answer, nil
}
