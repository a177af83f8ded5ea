package rag_test

import (
	"context"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
	"github.com/careermate/PersonaAPI/internal/rag/vectorDB"
)

// MockDocSource implements docsource.Source
type MockDocSource struct {
	OnFetch func(ctx context.Context, userID string, documentID string) (commonModels.ConversationDocument, error)
}

func (m *MockDocSource) Fetch(ctx context.Context, userID string, documentID string) (commonModels.ConversationDocument, error) {
	if m.OnFetch != nil {
		return m.OnFetch(ctx, userID, documentID)
	}
	return commonModels.ConversationDocument{
		DocumentID: documentID,
		Conversations: []commonModels.Conversation{
			{
				ID:    "conv-1",
				Title: "default",
				Messages: []commonModels.Message{
					{Role: commonModels.RoleAssistant, Content: "What did you build?"},
					{Role: commonModels.RoleUser, Content: "I led the migration."},
				},
			},
		},
	}, nil
}

// MockChunker implements rag.Chunker
type MockChunker struct {
	OnChunk func(doc commonModels.ConversationDocument) []commonModels.Chunk
}

func (m *MockChunker) Chunk(doc commonModels.ConversationDocument) []commonModels.Chunk {
	if m.OnChunk != nil {
		return m.OnChunk(doc)
	}
	return []commonModels.Chunk{
		{
			ChunkID:           doc.DocumentID + "-0",
			Role:              commonModels.RoleUser,
			Text:              "I led the migration.",
			DocumentID:        doc.DocumentID,
			PrecedingTurnRole: commonModels.RoleAssistant,
			PrecedingTurnText: "What did you build?",
			TotalChunks:       1,
		},
	}
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnEmbedDocuments func(ctx context.Context, texts []string) ([][]float32, error)
	OnEmbedQuery     func(ctx context.Context, query string) ([]float32, error)
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnEmbedDocuments != nil {
		return m.OnEmbedDocuments(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, query)
	}
	return []float32{0.1, 0.2}, nil
}

// MockVectorDB implements vectorDB.DataProcessor. Points counts upserted
// vectors so the default NamespaceCount reflects what was stored.
type MockVectorDB struct {
	OnEnsureNamespace func(ctx context.Context, namespace string) error
	OnUpsertBatch     func(ctx context.Context, namespace string, chunks []commonModels.Chunk, vectors [][]float32) error
	OnQuery           func(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]vectorDB.Match, error)
	OnNamespaceCount  func(ctx context.Context, namespace string) (uint64, error)
	Points            int
}

func (m *MockVectorDB) EnsureNamespace(ctx context.Context, namespace string) error {
	if m.OnEnsureNamespace != nil {
		return m.OnEnsureNamespace(ctx, namespace)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, namespace string, chunks []commonModels.Chunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, namespace, chunks, vectors)
	}
	m.Points += len(chunks)
	return nil
}

func (m *MockVectorDB) Query(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]vectorDB.Match, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, namespace, vector, topK, tagFilter)
	}
	return nil, nil
}

func (m *MockVectorDB) NamespaceCount(ctx context.Context, namespace string) (uint64, error) {
	if m.OnNamespaceCount != nil {
		return m.OnNamespaceCount(ctx, namespace)
	}
	return uint64(m.Points), nil
}

// MockTagger implements rag.Tagger
type MockTagger struct {
	OnTag func(ctx context.Context, vectors [][]float32, competencies []commonModels.CompetencyDefinition) ([][]string, error)
}

func (m *MockTagger) Tag(ctx context.Context, vectors [][]float32, competencies []commonModels.CompetencyDefinition) ([][]string, error) {
	if m.OnTag != nil {
		return m.OnTag(ctx, vectors, competencies)
	}
	tags := make([][]string, len(vectors))
	for i := range tags {
		if len(competencies) > 0 {
			tags[i] = []string{competencies[0].Name}
		}
	}
	return tags, nil
}

// MockRetriever implements rag.Retriever
type MockRetriever struct {
	OnRetrieve func(ctx context.Context, namespace string, query string, topK uint64, tagFilter string) (string, error)
}

func (m *MockRetriever) Retrieve(ctx context.Context, namespace string, query string, topK uint64, tagFilter string) (string, error) {
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, namespace, query, topK, tagFilter)
	}
	return "assistant: What did you build?\n\nuser: I led the migration.", nil
}

// MockEvaluator implements rag.Evaluator
type MockEvaluator struct {
	OnEvaluate  func(ctx context.Context, competency commonModels.CompetencyDefinition, profile commonModels.ProfileFacts, contextBlock string) (*commonModels.EvaluationResult, error)
	OnSummarize func(ctx context.Context, profile commonModels.ProfileFacts, results []commonModels.EvaluationResult) (string, error)
}

func (m *MockEvaluator) Evaluate(ctx context.Context, competency commonModels.CompetencyDefinition, profile commonModels.ProfileFacts, contextBlock string) (*commonModels.EvaluationResult, error) {
	if m.OnEvaluate != nil {
		return m.OnEvaluate(ctx, competency, profile, contextBlock)
	}
	return &commonModels.EvaluationResult{
		CompetencyID:   competency.ID,
		CompetencyName: competency.Name,
		Score:          70,
	}, nil
}

func (m *MockEvaluator) Summarize(ctx context.Context, profile commonModels.ProfileFacts, results []commonModels.EvaluationResult) (string, error) {
	if m.OnSummarize != nil {
		return m.OnSummarize(ctx, profile, results)
	}
	if len(results) == 0 {
		return "", nil
	}
	return "solid overall", nil
}

// RecordingStatusStore implements jobModel.StatusStore and keeps every
// transition in order, which is what the state machine tests assert on.
type RecordingStatusStore struct {
	Saved   []jobModel.StatusRecord
	SaveErr error
}

func (r *RecordingStatusStore) SaveStatus(ctx context.Context, userID string, documentID string, record jobModel.StatusRecord) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.Saved = append(r.Saved, record)
	return nil
}

func (r *RecordingStatusStore) GetStatus(ctx context.Context, userID string, documentID string) (jobModel.StatusRecord, bool) {
	if len(r.Saved) == 0 {
		return jobModel.StatusRecord{}, false
	}
	return r.Saved[len(r.Saved)-1], true
}

// RecordingResultStore implements jobModel.ResultStore
type RecordingResultStore struct {
	Results []commonModels.EvaluationResult
	Overall string
	SaveErr error
}

func (r *RecordingResultStore) SaveResult(ctx context.Context, userID string, documentID string, result commonModels.EvaluationResult) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.Results = append(r.Results, result)
	return nil
}

func (r *RecordingResultStore) GetResults(ctx context.Context, userID string, documentID string) ([]commonModels.EvaluationResult, error) {
	return r.Results, nil
}

func (r *RecordingResultStore) SaveOverallAssessment(ctx context.Context, userID string, documentID string, text string) error {
	r.Overall = text
	return nil
}

func (r *RecordingResultStore) GetOverallAssessment(ctx context.Context, userID string, documentID string) (string, bool) {
	return r.Overall, r.Overall != ""
}
