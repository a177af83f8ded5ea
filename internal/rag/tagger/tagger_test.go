package tagger

import (
	"context"
	"errors"
	"testing"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
)

type mockEmbedder struct {
	OnEmbedDocuments func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return m.OnEmbedDocuments(ctx, texts)
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return nil, errors.New("not used")
}

func fixedVectors(vectors [][]float32) *mockEmbedder {
	return &mockEmbedder{
		OnEmbedDocuments: func(ctx context.Context, texts []string) ([][]float32, error) {
			return vectors, nil
		},
	}
}

func competencies(names ...string) []commonModels.CompetencyDefinition {
	defs := make([]commonModels.CompetencyDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, commonModels.CompetencyDefinition{
			ID:    name,
			Name:  name,
			Query: "signals of " + name,
		})
	}
	return defs
}

func TestTag_IdenticalVectorAlwaysSelected(t *testing.T) {
	target := []float32{0.5, 0.5, 0}
	tagger := New(fixedVectors([][]float32{target, {0, 0, 1}}))

	tags, err := tagger.Tag(context.Background(), [][]float32{target}, competencies("communication", "leadership"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tags[0]) == 0 || tags[0][0] != "communication" {
		t.Fatalf("identical vector must rank first, got %v", tags[0])
	}
}

func TestTag_BelowThresholdGetsNoTags(t *testing.T) {
	// orthogonal vectors, similarity exactly 0
	tagger := New(fixedVectors([][]float32{{0, 1, 0}}))

	tags, err := tagger.Tag(context.Background(), [][]float32{{1, 0, 0}}, competencies("communication"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tags[0]) != 0 {
		t.Fatalf("expected empty tag set, got %v", tags[0])
	}
}

func TestTag_CapsAtMaxTags(t *testing.T) {
	target := []float32{1, 0}
	queryVectors := [][]float32{
		{1, 0},
		{0.99, 0.1},
		{0.98, 0.2},
		{0.97, 0.3},
		{0.96, 0.4},
	}
	tagger := New(fixedVectors(queryVectors))

	tags, err := tagger.Tag(context.Background(), [][]float32{target}, competencies("a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tags[0]) != 3 {
		t.Fatalf("expected 3 tags, got %d: %v", len(tags[0]), tags[0])
	}
	if tags[0][0] != "a" {
		t.Fatalf("expected best match first, got %v", tags[0])
	}
}

func TestTag_NilChunkVectorSkipped(t *testing.T) {
	tagger := New(fixedVectors([][]float32{{1, 0}}))

	tags, err := tagger.Tag(context.Background(), [][]float32{nil, {1, 0}}, competencies("a"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tags[0]) != 0 {
		t.Fatalf("nil vector must get no tags, got %v", tags[0])
	}
	if len(tags[1]) != 1 {
		t.Fatalf("real vector must still be tagged, got %v", tags[1])
	}
}

func TestTag_EmbedderErrorPropagates(t *testing.T) {
	boom := errors.New("quota")
	tagger := New(&mockEmbedder{
		OnEmbedDocuments: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, boom
		},
	})

	_, err := tagger.Tag(context.Background(), [][]float32{{1}}, competencies("a"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped embedder error, got %v", err)
	}
}

func TestCosine_Bounds(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Fatalf("identical vectors: got %v", got)
	}
	if got := cosine([]float32{1, 0}, []float32{-1, 0}); got != -1 {
		t.Fatalf("opposite vectors: got %v", got)
	}
	if got := cosine(nil, []float32{1}); got != 0 {
		t.Fatalf("length mismatch must score 0, got %v", got)
	}
}
