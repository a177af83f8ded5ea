package vectorDB

import (
	"context"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
)

// Match is one nearest neighbour: the stored chunk metadata plus the
// similarity score the index ranked it with.
type Match struct {
	ID    string
	Score float32
	Chunk commonModels.Chunk
}

// DataProcessor is the vector index boundary. A namespace is one user's
// isolated partition - queries in one namespace never see another's vectors.
type DataProcessor interface {
	EnsureNamespace(ctx context.Context, namespace string) error
	// UpsertBatch stores chunks with their vectors, splitting oversized
	// batches into fixed-size sub-batches internally. Re-upserting an id
	// overwrites, never duplicates.
	UpsertBatch(ctx context.Context, namespace string, chunks []commonModels.Chunk, vectors [][]float32) error
	// Query returns the topK nearest neighbours, optionally restricted to
	// chunks carrying the given competency tag.
	Query(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]Match, error)
	NamespaceCount(ctx context.Context, namespace string) (uint64, error)
}
