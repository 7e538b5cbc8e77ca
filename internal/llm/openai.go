package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIBackend talks to any OpenAI-compatible chat completions endpoint.
// The default endpoint is Groq.
type openAIBackend struct {
	client openai.Client
	model  string
}

func newOpenAIBackend(cfg LLMConfig) *openAIBackend {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	return &openAIBackend{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(endpoint),
			option.WithMaxRetries(0), // retryingClient owns retries
		),
		model: cfg.Model,
	}
}

func (b *openAIBackend) provider() string { return ProviderOpenAI }

func (b *openAIBackend) complete(ctx context.Context, req GenerateRequest, temperature float64, maxTokens int) (string, string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	params := openai.ChatCompletionNewParams{
		Model:       b.model,
		Messages:    messages,
		Temperature: openai.Float(temperature),
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", "", &StatusError{Code: apiErr.StatusCode, Err: err}
		}
		return "", "", err
	}
	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("openai: response has no choices")
	}
	return resp.Choices[0].Message.Content, resp.Model, nil
}

func (b *openAIBackend) ping(ctx context.Context) error {
	_, err := b.client.Models.List(ctx)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			// reachable, just unhappy with the request
			return nil
		}
	}
	return err
}
