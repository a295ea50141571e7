package assistant

import (
	"context"
)

// Request is a single-shot completion request: one system instruction, one
// user message. Temperature 0 means "use the provider default".
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Completer is the narrow contract the demo needs from an LLM provider.
// Implementations return the raw completion text; callers own any parsing
// or validation of the content.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}
