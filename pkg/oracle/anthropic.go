package oracle

import (
	"context"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/logging"
)

// AnthropicOracle talks to the Anthropic Messages API.
type AnthropicOracle struct {
	client      *anthropic.Client
	model       anthropic.Model
	temperature float64
	maxTokens   int
	breaker     *gobreaker.CircuitBreaker
	logger      *logging.Logger
}

// NewAnthropicOracle builds a client for the Anthropic API.
func NewAnthropicOracle(cfg Config) *AnthropicOracle {
	cfg.applyDefaults()

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicOracle{
		client:      &client,
		model:       anthropic.Model(cfg.Model),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		breaker:     newBreaker("oracle-anthropic"),
		logger:      logging.GetLogger(),
	}
}

// Query sends the instruction and returns the response text, degrading to
// FallbackPrompt on any transport failure.
func (o *AnthropicOracle) Query(ctx context.Context, instruction string) string {
	result, err := o.breaker.Execute(func() (interface{}, error) {
		message, err := o.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model: o.model,
			System: []anthropic.TextBlockParam{
				{Text: SystemPrompt},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(instruction),
				),
			},
			MaxTokens:   int64(o.maxTokens),
			Temperature: anthropic.Float(o.temperature),
		})
		if err != nil {
			return nil, err
		}
		if message == nil || len(message.Content) == 0 {
			return nil, errors.New(errors.InvalidResponse, "empty content from Anthropic API")
		}
		if block := message.Content[0]; block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
		return nil, errors.New(errors.InvalidResponse, "first content block is not text")
	})
	if err != nil {
		o.logger.Warn(ctx, "oracle query failed, substituting fallback: %v", err)
		return FallbackPrompt
	}
	return result.(string)
}
