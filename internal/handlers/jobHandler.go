package handlers

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/careermate/PersonaAPI/internal/api"
	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
	"github.com/careermate/PersonaAPI/internal/job"
	"github.com/careermate/PersonaAPI/internal/metrics"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
}

func InitJobHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func GetEvaluation(userID string, documentID string, traceId string) (jobModel.StatusRecord, bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance == nil {
		return jobModel.StatusRecord{}, false
	}
	return handlerInstance.service.StatusStore.GetStatus(ctxC, userID, documentID)
}

func ValidateEvaluationRequest(req api.EvaluationRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.DocumentID) == "" {
		return false
	}
	if len(req.Competencies) == 0 {
		return false
	}
	for _, competency := range req.Competencies {
		if strings.TrimSpace(competency.ID) == "" || strings.TrimSpace(competency.Name) == "" {
			return false
		}
	}
	return true
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.State = jobModel.JobStateQueued
	_job.CurrentStep = jobModel.EvaluationInit
	_job.UserID = newJob.userID
	_job.DocumentID = newJob.documentID
	_job.Competencies = newJob.competencies
	_job.Profile = newJob.profile

	//persist before enqueue so the status endpoint sees the job while it
	//waits for a worker
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId)
	if err := h.service.JobStore.SaveJob(ctxC, _job); err != nil {
		logJH.Error("Failed to persist queued job", "job id", _job.Id, "err", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//every evaluation runs chunking, embedding and several LLM calls, so the
	//pool grows with sustained request pressure rather than per job; idle
	//workers retire on their own, keeping one worker running at quiet times
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
