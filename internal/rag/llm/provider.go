package llm

import "context"

// Provider is the generation boundary used by the evaluator.
type Provider interface {
	// GenerateStructured asks for a JSON response body. The raw text comes
	// back unparsed; the caller owns extraction and validation.
	GenerateStructured(ctx context.Context, systemInstruction string, prompt string) (string, error)
	// GenerateText asks for free-form prose.
	GenerateText(ctx context.Context, systemInstruction string, prompt string) (string, error)
}
