package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIBackend_ChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user prompt", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"test-model",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"5 hours"}}]}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.APIKey = "sk-test"
	cfg.Endpoint = srv.URL + "/"
	cfg.Model = "test-model"

	client, err := NewClient(cfg, NoopObserver{})
	require.NoError(t, err)
	resp, err := client.Generate(context.Background(), GenerateRequest{
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})
	require.NoError(t, err)
	assert.Equal(t, "5 hours", resp.Text)
	assert.Equal(t, ProviderOpenAI, resp.Provider)
}

func TestOpenAIBackend_BadRequestIsRejected(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad","type":"invalid_request_error","code":"x","param":""}}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Endpoint = srv.URL + "/"
	client, err := NewClient(cfg, NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, 1, calls)
}

func TestOllamaBackend_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var body struct {
			Model  string `json:"model"`
			Stream *bool  `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.2", body.Model)
		require.NotNil(t, body.Stream)
		assert.False(t, *body.Stream)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"<think>x</think>3 hours"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	cfg.Endpoint = srv.URL
	cfg.RetryBackoffMs = 0

	client, err := NewClient(cfg, NoopObserver{})
	require.NoError(t, err)
	resp, err := client.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "<think>x</think>3 hours", resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
}

func TestOllamaBackend_ServerErrorRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model crashed"}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	cfg.Endpoint = srv.URL
	cfg.MaxRetries = 1
	cfg.RetryBackoffMs = 1

	client, err := NewClient(cfg, NoopObserver{})
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 2, calls)
}

func TestOllamaBackend_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	cfg.Endpoint = "http://127.0.0.1:1" // nothing listening
	cfg.MaxRetries = 0

	client, err := NewClient(cfg, NoopObserver{})
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, client.Available(context.Background()))
}

func geminiConfig(endpoint string) LLMConfig {
	cfg := testConfig()
	cfg.Provider = ProviderGemini
	cfg.APIKey = "gm-test"
	cfg.Endpoint = endpoint
	return cfg
}

func TestGeminiBackend_GenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/"+defaultGeminiModel+":generateContent"), r.URL.Path)
		assert.Equal(t, "gm-test", r.Header.Get("x-goog-api-key"))

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
			SystemInstruction struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"systemInstruction"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Len(t, body.Contents[0].Parts, 1)
		assert.Equal(t, "user prompt", body.Contents[0].Parts[0].Text)
		require.Len(t, body.SystemInstruction.Parts, 1)
		assert.Equal(t, "system prompt", body.SystemInstruction.Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"4 hours"}]}}],
			"modelVersion":"gemini-2.0-flash-001"}`))
	}))
	defer srv.Close()

	client, err := NewClient(geminiConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)
	resp, err := client.Generate(context.Background(), GenerateRequest{
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})
	require.NoError(t, err)
	assert.Equal(t, "4 hours", resp.Text)
	assert.Equal(t, "gemini-2.0-flash-001", resp.Model)
	assert.Equal(t, ProviderGemini, resp.Provider)
}

func TestGeminiBackend_APIErrorBecomesStatusError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(geminiConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, 1, calls)
}

func TestGeminiBackend_ServerErrorRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	cfg := geminiConfig(srv.URL)
	cfg.MaxRetries = 1
	cfg.RetryBackoffMs = 1
	client, err := NewClient(cfg, NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 2, calls)
}
