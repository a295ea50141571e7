package assistant

import (
	"context"

	"github.com/quickfixlabs/voicedemo/internal/config"
	"github.com/quickfixlabs/voicedemo/internal/faults"
)

// New builds the configured completion provider. OpenAI is the default;
// Gemini is available as an alternate backend.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case "", "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, faults.Configurationf("openai API key is not configured")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model), nil
	case "gemini":
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	default:
		return nil, faults.Configurationf("unknown llm provider %q", cfg.Provider)
	}
}
