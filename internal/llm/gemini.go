package llm

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiBackend calls the Gemini Developer API.
type geminiBackend struct {
	client *genai.Client
	model  string
}

func newGeminiBackend(cfg LLMConfig) (*geminiBackend, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" && cfg.Endpoint != DefaultOpenAIEndpoint {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" || model == DefaultConfig().Model {
		model = defaultGeminiModel
	}
	return &geminiBackend{client: client, model: model}, nil
}

func (b *geminiBackend) provider() string { return ProviderGemini }

func (b *geminiBackend) complete(ctx context.Context, req GenerateRequest, temperature float64, maxTokens int) (string, string, error) {
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if req.SystemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if maxTokens > 0 {
		gc.MaxOutputTokens = int32(maxTokens)
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.UserPrompt), gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", "", &StatusError{Code: apiErr.Code, Err: err}
		}
		return "", "", err
	}
	model := b.model
	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}
	return resp.Text(), model, nil
}

// ping has no cheap check in the Gemini API; a built client counts as reachable.
func (b *geminiBackend) ping(context.Context) error {
	if b.client == nil {
		return ErrUnavailable
	}
	return nil
}
