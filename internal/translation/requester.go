package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoAPIKey is returned when the provider has no API key configured.
	ErrNoAPIKey = errors.New("API key not found")
	// ErrEmptyResponse is returned when the provider replies with no text.
	ErrEmptyResponse = errors.New("no translation returned")
	// ErrServiceUnavailable is returned while the circuit breaker is open.
	ErrServiceUnavailable = errors.New("translation service unavailable")
)

// Requester sends a prompt to a text generation service and returns the
// raw reply.
type Requester interface {
	Request(ctx context.Context, prompt Prompt) (string, error)
	Name() string
}

// Config selects and configures a requester.
type Config struct {
	Provider string // "openai" or "gemini"
	APIKey   string
	Model    string // Empty selects the provider default
	BaseURL  string // OpenAI-compatible endpoint override
	Timeout  time.Duration

	// Consecutive failures before the breaker opens, and how long it
	// stays open.
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	Logger *zap.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:        "openai",
		Timeout:         30 * time.Second,
		BreakerFailures: 3,
		BreakerTimeout:  30 * time.Second,
	}
}

// NewRequester creates the requester named by cfg.Provider, wrapped in a
// circuit breaker.
func NewRequester(ctx context.Context, cfg *Config) (Requester, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var r Requester
	switch cfg.Provider {
	case "openai", "":
		r = NewOpenAIRequester(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)
	case "gemini":
		g, err := NewGeminiRequester(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		r = g
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}

	return NewBreakerRequester(r, cfg.BreakerFailures, cfg.BreakerTimeout, cfg.Logger), nil
}
