package llm

import (
	"fmt"
	"strconv"
	"strings"
)

// Provider names accepted in LLMConfig.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// DefaultOpenAIEndpoint points the OpenAI-compatible provider at Groq.
const DefaultOpenAIEndpoint = "https://api.groq.com/openai/v1/"

// LLMConfig holds all configuration for the summarization client.
type LLMConfig struct {
	Enabled        bool    `yaml:"enabled"`
	LogCalls       bool    `yaml:"log_calls"`
	Provider       string  `yaml:"provider"`
	Endpoint       string  `yaml:"endpoint"`
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	TimeoutMs      int     `yaml:"timeout_ms"`
	MaxRetries     int     `yaml:"max_retries"`
	RetryBackoffMs int     `yaml:"retry_backoff_ms"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// The client stays disabled until a credential is supplied.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:        false,
		LogCalls:       true,
		Provider:       ProviderOpenAI,
		Endpoint:       DefaultOpenAIEndpoint,
		Model:          "llama-3.3-70b-versatile",
		TimeoutMs:      30000,
		MaxRetries:     2,
		RetryBackoffMs: 500,
		Temperature:    0.6,
		MaxTokens:      512,
	}
}

// ApplyEnv overlays WORKSUMMARY_LLM_* variables read through getenv.
// A credential in the environment enables the client unless
// WORKSUMMARY_LLM_ENABLED says otherwise.
func (c *LLMConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv("WORKSUMMARY_LLM_PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}
	if v := getenv("WORKSUMMARY_LLM_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := getenv("WORKSUMMARY_LLM_MODEL"); v != "" {
		c.Model = v
	}

	key := getenv("WORKSUMMARY_LLM_API_KEY")
	if key == "" {
		switch c.Provider {
		case ProviderOpenAI:
			key = getenv("GROQ_API_KEY")
		case ProviderGemini:
			key = getenv("GEMINI_API_KEY")
		}
	}
	if key != "" {
		c.APIKey = key
		c.Enabled = true
	}

	if v := getenv("WORKSUMMARY_LLM_ENABLED"); v != "" {
		c.Enabled, _ = strconv.ParseBool(v)
	}
	if v := getenv("WORKSUMMARY_LLM_LOG_CALLS"); v != "" {
		c.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := getenv("WORKSUMMARY_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TimeoutMs = n
		}
	}
	if v := getenv("WORKSUMMARY_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxRetries = n
		}
	}
	if v := getenv("WORKSUMMARY_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			c.Temperature = f
		}
	}
}

// Validate checks the fields a provider needs before it is built.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%w: %s provider requires an API key", ErrNotConfigured, c.Provider)
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrNotConfigured)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("%w: timeout_ms must be positive", ErrNotConfigured)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must be >= 0", ErrNotConfigured)
	}
	return nil
}
