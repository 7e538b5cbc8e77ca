package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses config default
	MaxTokens    *int     // nil uses config default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	Provider  string
	LatencyMs int64
	Attempts  int
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the provider is reachable.
	Available(ctx context.Context) bool
}

// backend performs exactly one provider call. Retries, timeouts and
// observation live in retryingClient.
type backend interface {
	provider() string
	complete(ctx context.Context, req GenerateRequest, temperature float64, maxTokens int) (text, model string, err error)
	ping(ctx context.Context) error
}

// retryingClient implements LLMClient on top of a single-shot backend.
type retryingClient struct {
	cfg      LLMConfig
	backend  backend
	observer Observer
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewClient builds the LLMClient selected by cfg.Provider.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		b   backend
		err error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		b = newOpenAIBackend(cfg)
	case ProviderOllama:
		b, err = newOllamaBackend(cfg)
	case ProviderGemini:
		b, err = newGeminiBackend(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}
	return newRetryingClient(cfg, b, observer), nil
}

func newRetryingClient(cfg LLMConfig, b backend, observer Observer) *retryingClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &retryingClient{
		cfg:      cfg,
		backend:  b,
		observer: observer,
		sleep:    sleepContext,
	}
}

func (c *retryingClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	temp := c.cfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := c.cfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	maxAttempts := 1 + c.cfg.MaxRetries
	attempts := 0

	for attempts < maxAttempts {
		if attempts > 0 {
			if err := c.sleep(ctx, c.backoff(attempts)); err != nil {
				break
			}
		}
		attempts++

		text, model, err := c.backend.complete(ctx, req, temp, maxTok)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(LLMCallEvent{
				Provider:  c.backend.provider(),
				Model:     model,
				LatencyMs: latency,
				Attempts:  attempts,
				Success:   true,
			})
			return &GenerateResponse{
				Text:      text,
				Model:     model,
				Provider:  c.backend.provider(),
				LatencyMs: latency,
				Attempts:  attempts,
			}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout or a deterministic rejection.
		if ctx.Err() != nil || !isTransient(err) {
			break
		}
	}

	finalErr := c.classify(ctx, lastErr)
	c.observer.OnCallComplete(LLMCallEvent{
		Provider:  c.backend.provider(),
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   false,
		ErrorCode: errorCode(finalErr),
	})
	return nil, finalErr
}

func (c *retryingClient) classify(ctx context.Context, err error) error {
	var statusErr *StatusError
	switch {
	case ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.As(err, &statusErr) && !statusErr.Transient():
		return fmt.Errorf("%w: %v", ErrRejected, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

// backoff doubles RetryBackoffMs per retry, capped at eight times the base.
func (c *retryingClient) backoff(retry int) time.Duration {
	base := time.Duration(c.cfg.RetryBackoffMs) * time.Millisecond
	if base <= 0 {
		return 0
	}
	shift := retry - 1
	if shift > 3 {
		shift = 3
	}
	return base << shift
}

func (c *retryingClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.backend.ping(ctx) == nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}
	return true
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
