package api

import (
	"time"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id         string            `json:"id" example:"job_cz109"`
	UserID     string            `json:"user_id" example:"user_42"`
	DocumentID string            `json:"document_id" example:"doc_7"`
	Result     Result            `json:"result"`
	Error      *JobOutgoingError `json:"error,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	State       string `json:"state"`
	CurrentStep string `json:"current_step,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// EvaluationStatusResponse is the full picture for one (user, document) pair:
// the pipeline status record plus whatever results exist so far.
type EvaluationStatusResponse struct {
	State                    string                          `json:"state"`
	Message                  string                          `json:"message,omitempty"`
	Error                    string                          `json:"error,omitempty"`
	StartedAt                *time.Time                      `json:"started_at,omitempty"`
	CompletedAt              *time.Time                      `json:"completed_at,omitempty"`
	EmbeddingsCount          int                             `json:"embeddings_count"`
	HasEmbeddings            bool                            `json:"has_embeddings"`
	VectorizedCompetencyTags []string                        `json:"vectorized_competency_tags,omitempty"`
	Results                  []commonModels.EvaluationResult `json:"results"`
	OverallAssessment        string                          `json:"overall_assessment,omitempty"`
}

// requests---------------------

type EvaluationRequest struct {
	UserID       string                              `json:"user_id" validate:"required"`
	DocumentID   string                              `json:"document_id" validate:"required"`
	Competencies []commonModels.CompetencyDefinition `json:"competencies" validate:"required"`
	Profile      commonModels.ProfileFacts           `json:"profile,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
