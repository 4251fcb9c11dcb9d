package oracle

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/evomuse/evomuse/pkg/errors"
)

// Config holds the transport settings for a concrete oracle client.
type Config struct {
	// Provider selects the transport: "openai" (default, covers any
	// OpenAI-compatible endpoint via BaseURL) or "anthropic".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier passed to the provider.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the provider. Falls back to the
	// provider's conventional environment variable when empty.
	APIKey string `json:"api_key" yaml:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible only).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Temperature for prompt generation. Default: 0.7
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens per response. Default: 5000
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

func (c *Config) applyDefaults() {
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 5000
	}
}

// New builds an oracle client for the configured provider.
func New(cfg Config) (Oracle, error) {
	cfg.applyDefaults()
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIOracle(cfg), nil
	case "anthropic":
		return NewAnthropicOracle(cfg), nil
	default:
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "unknown oracle provider"),
			errors.Fields{"provider": cfg.Provider})
	}
}

// newBreaker builds the circuit breaker shared by the transports. After
// repeated transport failures the breaker opens and queries short-circuit
// straight to the fallback prompt instead of hammering a dead endpoint.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	})
}
