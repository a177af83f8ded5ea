package adapter

import (
	"fmt"
	"time"

	"github.com/careermate/PersonaAPI/internal/api"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		State:       string(job.State),
		CurrentStep: string(job.CurrentStep),
	}

	return api.JobResponse{
		Id:         job.Id,
		UserID:     job.UserID,
		DocumentID: job.DocumentID,
		StartTime:  job.CreatedTime,
		EndTime:    job.EndTime,
		Error:      errorPtr,
		Result:     result,
	}
}

func ToEvaluationStatusResponse(record jobModel.StatusRecord, results []commonModels.EvaluationResult, overall string) api.EvaluationStatusResponse {
	if results == nil {
		results = []commonModels.EvaluationResult{}
	}
	return api.EvaluationStatusResponse{
		State:                    string(record.State),
		Message:                  record.Message,
		Error:                    record.Error,
		StartedAt:                record.StartedAt,
		CompletedAt:              record.CompletedAt,
		EmbeddingsCount:          record.EmbeddingsCount,
		HasEmbeddings:            record.HasEmbeddings,
		VectorizedCompetencyTags: record.VectorizedCompetencyTags,
		Results:                  results,
		OverallAssessment:        overall,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			State: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
