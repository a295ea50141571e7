package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/quickfixlabs/voicedemo/internal/faults"
)

type geminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Completer backed by the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (Completer, error) {
	if apiKey == "" {
		return nil, faults.Configurationf("gemini API key is not configured")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	return geminiCompleter{client: client, model: model}, nil
}

// Complete implements Completer.
func (g geminiCompleter) Complete(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if req.Temperature != 0 {
		model.SetTemperature(float32(req.Temperature))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", faults.Upstreamf("gemini completion: %v", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", faults.Upstreamf("gemini completion: no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (g geminiCompleter) Name() string { return "gemini" }
