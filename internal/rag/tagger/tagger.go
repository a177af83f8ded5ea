package tagger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/rag/embedding"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

// Tagger labels chunks with the competencies they plausibly evidence, by
// cosine similarity between chunk vectors and competency query vectors.
type Tagger struct {
	embedder  embedding.Embedder
	threshold float64
	maxTags   int
	logger    *logger_i.Logger
}

func New(embedder embedding.Embedder) *Tagger {
	return &Tagger{
		embedder:  embedder,
		threshold: config.SimilarityThreshold,
		maxTags:   config.MaxCompetencyTags,
		logger:    logger_i.NewLogger("tagger"),
	}
}

// Tag returns, per chunk vector, the competency names scoring at or above the
// threshold, capped at maxTags and ordered by descending similarity. A chunk
// resembling no competency gets an empty set - there is no fallback tag.
func (t *Tagger) Tag(ctx context.Context, vectors [][]float32, competencies []commonModels.CompetencyDefinition) ([][]string, error) {
	log := t.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	tags := make([][]string, len(vectors))
	if len(competencies) == 0 || len(vectors) == 0 {
		return tags, nil
	}

	queries := make([]string, len(competencies))
	for i, competency := range competencies {
		queries[i] = competency.Query
		if strings.TrimSpace(queries[i]) == "" {
			queries[i] = competency.Name + ". " + competency.Description
		}
	}

	queryVectors, err := t.embedder.EmbedDocuments(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("embedding competency queries failed: %w", err)
	}

	type scored struct {
		name string
		sim  float64
	}

	for i, vector := range vectors {
		if len(vector) == 0 {
			continue
		}

		candidates := make([]scored, 0, len(competencies))
		for j, queryVector := range queryVectors {
			candidates = append(candidates, scored{
				name: competencies[j].Name,
				sim:  cosine(vector, queryVector),
			})
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].sim > candidates[b].sim
		})

		for _, candidate := range candidates {
			if candidate.sim < t.threshold || len(tags[i]) >= t.maxTags {
				break
			}
			tags[i] = append(tags[i], candidate.name)
		}
	}

	log.Debug("Tagged chunks", "chunks", len(vectors), "competencies", len(competencies))
	return tags, nil
}

// cosine is clipped to [-1, 1] so float drift can never push a similarity
// past the threshold scale.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim
}
