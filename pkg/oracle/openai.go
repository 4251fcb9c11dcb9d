package oracle

import (
	"context"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"github.com/evomuse/evomuse/pkg/errors"
	"github.com/evomuse/evomuse/pkg/logging"
)

// OpenAIOracle talks to any OpenAI-compatible chat-completion endpoint.
type OpenAIOracle struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	breaker     *gobreaker.CircuitBreaker
	logger      *logging.Logger
}

// NewOpenAIOracle builds a client for the configured endpoint. A custom
// BaseURL points it at local or self-hosted OpenAI-compatible servers.
func NewOpenAIOracle(cfg Config) *OpenAIOracle {
	cfg.applyDefaults()

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIOracle{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		breaker:     newBreaker("oracle-openai"),
		logger:      logging.GetLogger(),
	}
}

// Query sends the instruction and returns the response text. It never
// fails: transport errors, empty responses, and an open breaker all
// degrade to FallbackPrompt.
func (o *OpenAIOracle) Query(ctx context.Context, instruction string) string {
	result, err := o.breaker.Execute(func() (interface{}, error) {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: instruction},
			},
			Temperature: o.temperature,
			MaxTokens:   o.maxTokens,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New(errors.InvalidResponse, "chat completion returned no choices")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		o.logger.Warn(ctx, "oracle query failed, substituting fallback: %v", err)
		return FallbackPrompt
	}
	return result.(string)
}
