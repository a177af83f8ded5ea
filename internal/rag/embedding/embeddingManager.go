package embedding

import "context"

// Embedder turns text into fixed-dimension vectors. Document and query calls
// hit differently biased regions of the model's vector space, so callers must
// pick the intent that matches the text - mixing them silently degrades
// retrieval quality.
type Embedder interface {
	// EmbedDocuments embeds indexed content. The result is positionally
	// aligned with the input; entries filtered for being empty come back nil.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedQuery embeds incoming search text.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}
