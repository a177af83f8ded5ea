package rag

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
	"github.com/careermate/PersonaAPI/internal/metrics"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

func logStep(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("RunEvaluation", "Current Status", job.CurrentStep)
	return job
}

func (s *service) saveStatus(ctx context.Context, job jobModel.Job, record jobModel.StatusRecord) {
	if err := s.status.SaveStatus(ctx, job.UserID, job.DocumentID, record); err != nil {
		s.logger.Error("Failed to persist status", "JobId", job.Id, "error", err)
	}
}

// finalizeStatus writes the terminal record. CompletedAt is set here and only
// here, so it lands exactly once per job.
func (s *service) finalizeStatus(ctx context.Context, job jobModel.Job, record *jobModel.StatusRecord) {
	if record.CompletedAt == nil {
		now := time.Now().UTC()
		record.CompletedAt = &now
	}
	s.saveStatus(ctx, job, *record)
}

func (s *service) failJob(ctx context.Context, job jobModel.Job, record jobModel.StatusRecord, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "JobId", job.Id, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   canRetry,
	}
	job.State = jobModel.JobStateFailed
	job.CurrentStep = jobModel.Error
	job.EndTime = time.Now().UTC()

	record.State = jobModel.JobStateFailed
	record.Error = message
	s.finalizeStatus(ctx, job, &record)
	return job
}

func (s *service) executeFetchStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) (commonModels.ConversationDocument, error) {
	*job = logStep(*job, jobModel.DocumentFetch, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_fetch", time.Since(start)) }()

	return s.docs.Fetch(ctx, job.UserID, job.DocumentID)
}

func (s *service) executeChunkStep(log *logger_i.Logger, job *jobModel.Job, doc commonModels.ConversationDocument) []commonModels.Chunk {
	*job = logStep(*job, jobModel.Chunking, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunking", time.Since(start)) }()

	return s.chunker.Chunk(doc)
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []commonModels.Chunk) ([][]float32, error) {
	*job = logStep(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
	}
	return s.embedder.EmbedDocuments(ctx, texts)
}

func (s *service) executeTaggingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, vectors [][]float32) ([][]string, error) {
	*job = logStep(*job, jobModel.CompetencyTagging, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("competency_tagging", time.Since(start)) }()

	return s.tagger.Tag(ctx, vectors, job.Competencies)
}

func (s *service) executeUpsertStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []commonModels.Chunk, vectors [][]float32) error {
	*job = logStep(*job, jobModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start)) }()

	if err := s.vectorDB.EnsureNamespace(ctx, job.UserID); err != nil {
		return err
	}
	return s.vectorDB.UpsertBatch(ctx, job.UserID, chunks, vectors)
}

// executeEvaluationStep runs competencies sequentially. Each one retrieves,
// evaluates and persists on its own; one bad competency never drags down the
// others. Returns the successes and how many were skipped for lack of context.
func (s *service) executeEvaluationStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]commonModels.EvaluationResult, int) {
	*job = logStep(*job, jobModel.CompetencyEvaluation, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("competency_evaluation", time.Since(start)) }()

	results := make([]commonModels.EvaluationResult, 0, len(job.Competencies))
	skipped := 0

	for _, competency := range job.Competencies {
		contextBlock, err := s.retriever.Retrieve(ctx, job.UserID, competencyQuery(competency), config.EvaluationTopK, competency.Name)
		if err != nil {
			log.Error("Retrieval failed for competency", "competency", competency.Name, "error", err)
			continue
		}

		result, err := s.evaluator.Evaluate(ctx, competency, job.Profile, contextBlock)
		if err != nil {
			log.Error("Evaluation failed for competency", "competency", competency.Name, "error", err)
			continue
		}
		if result == nil {
			skipped++
			continue
		}

		if err := s.results.SaveResult(ctx, job.UserID, job.DocumentID, *result); err != nil {
			log.Error("Failed to persist result", "competency", competency.Name, "error", err)
		}
		results = append(results, *result)
	}

	return results, skipped
}

func (s *service) executeSummaryStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, results []commonModels.EvaluationResult) {
	*job = logStep(*job, jobModel.OverallAssessment, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("overall_assessment", time.Since(start)) }()

	summary, err := s.evaluator.Summarize(ctx, job.Profile, results)
	if err != nil {
		log.Error("Overall assessment failed", "error", err)
		return
	}
	if summary == "" {
		return
	}
	if err := s.results.SaveOverallAssessment(ctx, job.UserID, job.DocumentID, summary); err != nil {
		log.Error("Failed to persist overall assessment", "error", err)
	}
}

// competencyQuery is the retrieval text for a competency; definitions without
// an explicit query fall back to name plus description.
func competencyQuery(competency commonModels.CompetencyDefinition) string {
	if strings.TrimSpace(competency.Query) != "" {
		return competency.Query
	}
	return competency.Name + ". " + competency.Description
}

// dropUnembedded removes chunks whose text the embedder filtered out, keeping
// chunks and vectors positionally aligned.
func dropUnembedded(chunks []commonModels.Chunk, vectors [][]float32) ([]commonModels.Chunk, [][]float32) {
	keptChunks := make([]commonModels.Chunk, 0, len(chunks))
	keptVectors := make([][]float32, 0, len(vectors))
	for i := range chunks {
		if i < len(vectors) && len(vectors[i]) > 0 {
			keptChunks = append(keptChunks, chunks[i])
			keptVectors = append(keptVectors, vectors[i])
		}
	}
	return keptChunks, keptVectors
}

func uniqueTags(chunks []commonModels.Chunk) []string {
	seen := make(map[string]struct{})
	for _, chunk := range chunks {
		for _, tag := range chunk.CompetencyTags {
			seen[tag] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
