package jobModel

import (
	"context"
	"time"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
)

type JobState string
type InternalStatus string

const (
	JobStateQueued    JobState = "queued"
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"

	EvaluationInit       InternalStatus = "Init"
	DocumentFetch        InternalStatus = "DocumentFetch"
	Chunking             InternalStatus = "Chunking"
	EmbeddingAPICall     InternalStatus = "EmbeddingAPI"
	CompetencyTagging    InternalStatus = "CompetencyTagging"
	VectorDBCall         InternalStatus = "VectorDB"
	CompetencyEvaluation InternalStatus = "CompetencyEvaluation"
	OverallAssessment    InternalStatus = "OverallAssessment"
	Error                InternalStatus = "Error"
	Complete             InternalStatus = "Complete"
)

type Job struct {
	Id           string                               `json:"id"`
	TraceId      string                               `json:"trace_id"`
	UserID       string                               `json:"user_id"`
	DocumentID   string                               `json:"document_id"`
	Competencies []commonModels.CompetencyDefinition  `json:"competencies,omitempty"`
	Profile      commonModels.ProfileFacts            `json:"profile,omitempty"`
	Error        JobError                             `json:"error,omitempty"`
	CreatedTime  time.Time                            `json:"created_time"`
	EndTime      time.Time                            `json:"end_time,omitempty"`
	State        JobState                             `json:"state"`
	CurrentStep  InternalStatus                       `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// StatusRecord is the single mutable status document per (user, document)
// pair, rewritten at every state transition. CompletedAt is set exactly once,
// on entering a terminal state.
type StatusRecord struct {
	State                    JobState   `json:"state"`
	Message                  string     `json:"message,omitempty"`
	Error                    string     `json:"error,omitempty"`
	StartedAt                *time.Time `json:"started_at,omitempty"`
	CompletedAt              *time.Time `json:"completed_at,omitempty"`
	EmbeddingsCount          int        `json:"embeddings_count"`
	HasEmbeddings            bool       `json:"has_embeddings"`
	VectorizedCompetencyTags []string   `json:"vectorized_competency_tags,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// StatusStore persists StatusRecord transitions. Write failures are logged by
// callers but never gate pipeline progress.
type StatusStore interface {
	SaveStatus(ctx context.Context, userID string, documentID string, record StatusRecord) error
	GetStatus(ctx context.Context, userID string, documentID string) (StatusRecord, bool)
}

// ResultStore persists one EvaluationResult per successfully evaluated
// competency, last-write-wins on retried jobs.
type ResultStore interface {
	SaveResult(ctx context.Context, userID string, documentID string, result commonModels.EvaluationResult) error
	GetResults(ctx context.Context, userID string, documentID string) ([]commonModels.EvaluationResult, error)
	SaveOverallAssessment(ctx context.Context, userID string, documentID string, text string) error
	GetOverallAssessment(ctx context.Context, userID string, documentID string) (string, bool)
}
