package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

const (
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultOllamaModel    = "llama3.2"
)

// ollamaBackend calls a local or remote Ollama server.
type ollamaBackend struct {
	client *ollama.Client
	model  string
}

func newOllamaBackend(cfg LLMConfig) (*ollamaBackend, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" || endpoint == DefaultOpenAIEndpoint {
		endpoint = defaultOllamaEndpoint
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" || model == DefaultConfig().Model {
		model = defaultOllamaModel
	}
	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
	return &ollamaBackend{
		client: ollama.NewClient(base, httpClient),
		model:  model,
	}, nil
}

func (b *ollamaBackend) provider() string { return ProviderOllama }

func (b *ollamaBackend) complete(ctx context.Context, req GenerateRequest, temperature float64, maxTokens int) (string, string, error) {
	var messages []ollama.Message
	if req.SystemPrompt != "" {
		messages = append(messages, ollama.Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, ollama.Message{Role: "user", Content: req.UserPrompt})

	stream := false
	options := map[string]any{"temperature": temperature}
	if maxTokens > 0 {
		options["num_predict"] = maxTokens
	}

	var (
		out   strings.Builder
		model = b.model
	)
	err := b.client.Chat(ctx, &ollama.ChatRequest{
		Model:    b.model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}, func(resp ollama.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		if resp.Model != "" {
			model = resp.Model
		}
		return nil
	})
	if err != nil {
		var statusErr ollama.StatusError
		if errors.As(err, &statusErr) {
			return "", "", &StatusError{Code: statusErr.StatusCode, Err: err}
		}
		return "", "", err
	}
	return out.String(), model, nil
}

func (b *ollamaBackend) ping(ctx context.Context) error {
	return b.client.Heartbeat(ctx)
}
