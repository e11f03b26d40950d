// Package llm defines the narrative generation provider interface.
package llm

import "context"

// Provider defines the interface for text generation backends.
type Provider interface {
	// GenerateText sends a prompt and returns the text response.
	// The intent selects a model profile (e.g. "report").
	GenerateText(ctx context.Context, intent, prompt string) (string, error)

	// Close cleans up resources.
	Close()
}
