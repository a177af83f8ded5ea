package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/rag/vectorDB"
)

type mockEmbedder struct {
	OnEmbedQuery func(ctx context.Context, query string) ([]float32, error)
}

func (m *mockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("not used")
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return m.OnEmbedQuery(ctx, query)
}

type mockVectorStore struct {
	OnQuery func(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]vectorDB.Match, error)
}

func (m *mockVectorStore) EnsureNamespace(ctx context.Context, namespace string) error {
	return nil
}

func (m *mockVectorStore) UpsertBatch(ctx context.Context, namespace string, chunks []commonModels.Chunk, vectors [][]float32) error {
	return nil
}

func (m *mockVectorStore) Query(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]vectorDB.Match, error) {
	return m.OnQuery(ctx, namespace, vector, topK, tagFilter)
}

func (m *mockVectorStore) NamespaceCount(ctx context.Context, namespace string) (uint64, error) {
	return 0, nil
}

func okEmbedder() *mockEmbedder {
	return &mockEmbedder{
		OnEmbedQuery: func(ctx context.Context, query string) ([]float32, error) {
			return []float32{1, 0}, nil
		},
	}
}

func TestRetrieve_FormatsExcerptsInRankOrder(t *testing.T) {
	store := &mockVectorStore{
		OnQuery: func(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]vectorDB.Match, error) {
			return []vectorDB.Match{
				{Score: 0.9, Chunk: commonModels.Chunk{
					Role:              commonModels.RoleUser,
					Text:              "I led the migration",
					PrecedingTurnRole: commonModels.RoleAssistant,
					PrecedingTurnText: "What was your part in it?",
				}},
				{Score: 0.5, Chunk: commonModels.Chunk{
					Role: commonModels.RoleUser,
					Text: "we shipped on time",
				}},
			}, nil
		},
	}

	got, err := New(okEmbedder(), store).Retrieve(context.Background(), "u1", "leadership", 5, "")
	if err != nil {
		t.Fatal(err)
	}

	want := "assistant: What was your part in it?\n\nuser: I led the migration" +
		"\n\n---\n\n" +
		"user: we shipped on time"
	if got != want {
		t.Fatalf("context mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRetrieve_EmptyNamespaceIsNotAnError(t *testing.T) {
	store := &mockVectorStore{
		OnQuery: func(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]vectorDB.Match, error) {
			return nil, nil
		},
	}

	got, err := New(okEmbedder(), store).Retrieve(context.Background(), "u1", "leadership", 5, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestRetrieve_PassesTagFilterAndTopK(t *testing.T) {
	var gotFilter string
	var gotTopK uint64
	store := &mockVectorStore{
		OnQuery: func(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]vectorDB.Match, error) {
			gotFilter = tagFilter
			gotTopK = topK
			return nil, nil
		},
	}

	_, err := New(okEmbedder(), store).Retrieve(context.Background(), "u1", "leadership", 3, "leadership")
	if err != nil {
		t.Fatal(err)
	}
	if gotFilter != "leadership" || gotTopK != 3 {
		t.Fatalf("filter/topK not forwarded: %q %d", gotFilter, gotTopK)
	}
}

func TestRetrieve_EmbedderFailureSurfaces(t *testing.T) {
	embedder := &mockEmbedder{
		OnEmbedQuery: func(ctx context.Context, query string) ([]float32, error) {
			return nil, errors.New("quota")
		},
	}
	store := &mockVectorStore{}

	_, err := New(embedder, store).Retrieve(context.Background(), "u1", "q", 5, "")
	if err == nil || !strings.Contains(err.Error(), "query embedding failed") {
		t.Fatalf("expected embedding failure, got %v", err)
	}
}
