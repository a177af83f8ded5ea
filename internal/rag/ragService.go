package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/data/docsource"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
	"github.com/careermate/PersonaAPI/internal/rag/embedding"
	"github.com/careermate/PersonaAPI/internal/rag/vectorDB"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

// Service is all the worker sees. The pipeline stages behind it stay
// swappable for tests without the worker knowing.
type Service interface {
	RunEvaluation(ctx context.Context, job jobModel.Job) jobModel.Job
}

// Chunker cuts a converted document into token-bounded user chunks.
type Chunker interface {
	Chunk(doc commonModels.ConversationDocument) []commonModels.Chunk
}

// Tagger assigns competency names to chunk vectors by similarity.
type Tagger interface {
	Tag(ctx context.Context, vectors [][]float32, competencies []commonModels.CompetencyDefinition) ([][]string, error)
}

// Retriever builds the formatted context block for one competency query.
type Retriever interface {
	Retrieve(ctx context.Context, namespace string, query string, topK uint64, tagFilter string) (string, error)
}

// Evaluator scores a competency from context and summarizes across results.
type Evaluator interface {
	Evaluate(ctx context.Context, competency commonModels.CompetencyDefinition, profile commonModels.ProfileFacts, contextBlock string) (*commonModels.EvaluationResult, error)
	Summarize(ctx context.Context, profile commonModels.ProfileFacts, results []commonModels.EvaluationResult) (string, error)
}

type service struct {
	docs      docsource.Source
	chunker   Chunker
	embedder  embedding.Embedder
	vectorDB  vectorDB.DataProcessor
	tagger    Tagger
	retriever Retriever
	evaluator Evaluator
	status    jobModel.StatusStore
	results   jobModel.ResultStore
	logger    *logger_i.Logger
}

// NewService constructor
func NewService(docs docsource.Source, chunkr Chunker, em embedding.Embedder, vector vectorDB.DataProcessor,
	tagr Tagger, retr Retriever, eval Evaluator, status jobModel.StatusStore, results jobModel.ResultStore) Service {
	return &service{
		docs:      docs,
		chunker:   chunkr,
		embedder:  em,
		vectorDB:  vector,
		tagger:    tagr,
		retriever: retr,
		evaluator: eval,
		status:    status,
		results:   results,
		logger:    logger_i.NewLogger("RAG Service :"),
	}
}

// RunEvaluation drives one job through the whole pipeline. Fetch, chunking,
// embedding and upsert failures kill the job; tagging, single-competency
// evaluation and the overall summary fail soft.
func (s *service) RunEvaluation(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	jobt.State = jobModel.JobStateRunning
	jobt.CurrentStep = jobModel.EvaluationInit

	started := time.Now().UTC()
	record := jobModel.StatusRecord{
		State:     jobModel.JobStateRunning,
		Message:   "evaluation started",
		StartedAt: &started,
	}
	s.saveStatus(ctx, jobt, record)

	// Document fetch
	doc, err := s.executeFetchStep(ctx, inMethodLogger, &jobt)
	if err != nil {
		return s.failJob(ctx, jobt, record, err, "DOCUMENT_FETCH_FAILURE", !errors.Is(err, docsource.ErrNotFound))
	}

	// Chunking
	chunks := s.executeChunkStep(inMethodLogger, &jobt, doc)
	if len(chunks) == 0 {
		return s.failJob(ctx, jobt, record, errors.New("document holds no user content"), "NO_CHUNKS_TO_PROCESS", false)
	}

	// Embedding
	vectors, err := s.executeEmbeddingStep(ctx, inMethodLogger, &jobt, chunks)
	if err != nil {
		return s.failJob(ctx, jobt, record, err, "EMBEDDING_FAILURE", true)
	}
	chunks, vectors = dropUnembedded(chunks, vectors)
	if len(chunks) == 0 {
		return s.failJob(ctx, jobt, record, errors.New("no chunk produced a vector"), "EMBEDDING_FAILURE", true)
	}

	// Competency tagging - a failure here costs filtering precision, not the job
	tags, err := s.executeTaggingStep(ctx, inMethodLogger, &jobt, vectors)
	if err != nil {
		inMethodLogger.Error("Competency tagging failed, continuing untagged", "error", err)
	} else {
		for i := range chunks {
			chunks[i].CompetencyTags = tags[i]
		}
	}

	// Vector DB upsert
	if err := s.executeUpsertStep(ctx, inMethodLogger, &jobt, chunks, vectors); err != nil {
		return s.failJob(ctx, jobt, record, err, "VECTOR_DB_FAILURE", true)
	}

	record.EmbeddingsCount = len(chunks)
	if count, err := s.vectorDB.NamespaceCount(ctx, jobt.UserID); err != nil {
		inMethodLogger.Error("Namespace count failed, reporting this job's upserts only", "error", err)
	} else {
		record.EmbeddingsCount = int(count)
	}
	record.HasEmbeddings = record.EmbeddingsCount > 0
	record.VectorizedCompetencyTags = uniqueTags(chunks)
	record.Message = "embeddings stored"
	s.saveStatus(ctx, jobt, record)

	// Per-competency evaluation
	results, skipped := s.executeEvaluationStep(ctx, inMethodLogger, &jobt)

	// Overall assessment
	s.executeSummaryStep(ctx, inMethodLogger, &jobt, results)

	jobt.State = jobModel.JobStateCompleted
	jobt.CurrentStep = jobModel.Complete
	jobt.EndTime = time.Now().UTC()

	record.State = jobModel.JobStateCompleted
	record.Message = fmt.Sprintf("evaluated %d of %d competencies, %d without evidence",
		len(results), len(jobt.Competencies), skipped)
	s.finalizeStatus(ctx, jobt, &record)

	inMethodLogger.Info("Evaluation complete", "evaluated", len(results), "skipped", skipped)
	return jobt
}
