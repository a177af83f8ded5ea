package handlers

import (
	"context"
	"testing"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
	"github.com/careermate/PersonaAPI/internal/job"
)

type stubJobStore struct {
	saved map[string]jobModel.Job
}

func (s *stubJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	s.saved[j.Id] = j
	return nil
}

func (s *stubJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	j, ok := s.saved[jobId]
	return j, ok
}

func (s *stubJobStore) DeleteJob(ctx context.Context, jobID string) {
	delete(s.saved, jobID)
}

func TestCreateNewJob_QueuedJobVisibleBeforePickup(t *testing.T) {
	store := &stubJobStore{saved: make(map[string]jobModel.Job)}
	svc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 1),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store,
	}
	InitJobHandler(svc)

	CreateNewJob(newJobData{
		id:         "job-1",
		userID:     "u1",
		documentID: "doc-1",
		competencies: []commonModels.CompetencyDefinition{
			{ID: "leadership", Name: "leadership"},
		},
		traceId: "trace-1",
	})

	// no worker has read the channel yet, the job must already be visible
	queued, found := GetJobStatus("job-1", "trace-1")
	if !found {
		t.Fatal("queued job not visible through the job store before worker pickup")
	}
	if queued.State != jobModel.JobStateQueued {
		t.Errorf("expected queued state, got %v", queued.State)
	}
	if queued.UserID != "u1" || queued.DocumentID != "doc-1" {
		t.Errorf("persisted job lost its request fields: %+v", queued)
	}

	select {
	case enqueued := <-svc.JobChannel:
		if enqueued.Id != "job-1" {
			t.Errorf("wrong job enqueued: %+v", enqueued)
		}
	default:
		t.Fatal("job never reached the channel")
	}
}
