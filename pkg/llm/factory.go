package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/config"
)

// NewProvider builds the configured completion provider.
func NewProvider(cfg *config.AIConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.Endpoint, cfg.Model, cfg.APIKey, logger)
	case "anthropic":
		return NewAnthropicClient(cfg.Model, cfg.APIKey, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
