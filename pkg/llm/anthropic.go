package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

const anthropicMaxTokens = 8192

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicClient creates a client for the given model.
func NewAnthropicClient(model, apiKey string, logger *zap.Logger) (*AnthropicClient, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  model,
		logger: logger.Named("llm"),
	}, nil
}

var _ Provider = (*AnthropicClient)(nil)

func (c *AnthropicClient) Complete(ctx context.Context, systemMessage, prompt string) (string, error) {
	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    systemMessage,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("messages request failed: %w", err)
	}

	text := resp.GetFirstContentText()
	if text == "" {
		return "", fmt.Errorf("messages request returned no text content")
	}

	c.logger.Debug("LLM response",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("output_tokens", resp.Usage.OutputTokens))

	return text, nil
}
