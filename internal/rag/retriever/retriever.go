package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/rag/embedding"
	"github.com/careermate/PersonaAPI/internal/rag/vectorDB"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

// Retriever turns a competency query into evaluation context: the user's most
// relevant conversation chunks, formatted as dialogue excerpts.
type Retriever struct {
	embedder embedding.Embedder
	store    vectorDB.DataProcessor
	logger   *logger_i.Logger
}

func New(embedder embedding.Embedder, store vectorDB.DataProcessor) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   logger_i.NewLogger("retriever"),
	}
}

// Retrieve returns the formatted context block for one query, or "" when the
// namespace holds nothing relevant. An empty result is not an error.
func (r *Retriever) Retrieve(ctx context.Context, namespace string, query string, topK uint64, tagFilter string) (string, error) {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("query embedding failed: %w", err)
	}

	matches, err := r.store.Query(ctx, namespace, vector, topK, tagFilter)
	if err != nil {
		return "", fmt.Errorf("vector query failed: %w", err)
	}
	if len(matches) == 0 {
		log.Debug("no matches for query", "namespace", namespace)
		return "", nil
	}

	excerpts := make([]string, 0, len(matches))
	for _, match := range matches {
		excerpts = append(excerpts, formatExcerpt(match))
	}
	return strings.Join(excerpts, "\n\n---\n\n"), nil
}

// formatExcerpt renders one chunk as a dialogue turn, prefixed with the turn
// that prompted it when we have one.
func formatExcerpt(match vectorDB.Match) string {
	chunk := match.Chunk
	if chunk.PrecedingTurnText == "" {
		return fmt.Sprintf("%s: %s", chunk.Role, chunk.Text)
	}
	return fmt.Sprintf("%s: %s\n\n%s: %s",
		chunk.PrecedingTurnRole, chunk.PrecedingTurnText, chunk.Role, chunk.Text)
}
