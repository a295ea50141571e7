package assistant

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/quickfixlabs/voicedemo/internal/faults"
)

type openAICompleter struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI builds a Completer backed by the OpenAI chat completions API.
func NewOpenAI(apiKey, model string) Completer {
	if model == "" {
		model = openai.ChatModelGPT4
	}
	return openAICompleter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete implements Completer.
func (o openAICompleter) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Model: o.model,
	}
	if req.Temperature != 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	chatCompletion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", faults.Upstreamf("openai completion: %v", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return "", faults.Upstreamf("openai completion: empty choice list")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}

func (o openAICompleter) Name() string { return "openai" }
