// Package llm provides provider-neutral LLM completion clients for the
// narrative organizer and structured extractor.
package llm

import "context"

// Provider generates a single chat completion. Implementations exist for
// OpenAI-compatible endpoints (including local Ollama) and Anthropic.
type Provider interface {
	Complete(ctx context.Context, systemMessage, prompt string) (string, error)
}
