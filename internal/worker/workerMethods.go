package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/careermate/PersonaAPI/internal/config"
	jobmodel "github.com/careermate/PersonaAPI/internal/domain/jobModel"
	"github.com/careermate/PersonaAPI/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.State), time.Since(start))
	}()

	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStateRunning)

	// RunEvaluation owns the terminal state, completed or failed
	job = _ragService.RunEvaluation(ctx, job)

	persistJob(ctx, job)
}

// retireIdleWorker decrements the pool unless that would drop it below
// config.MinWorkerCount. The CAS loop stops two workers timing out together
// from both retiring past the floor.
func retireIdleWorker() bool {
	for {
		count := atomic.LoadInt64(&currentWorkerCount)
		if count <= config.MinWorkerCount {
			return false
		}
		if atomic.CompareAndSwapInt64(&currentWorkerCount, count, count-1) {
			workerWaitGroup.Done()
			logger.Info("Removed worker ", "reason", "idle timeout", "workerCount", count-1)
			metrics.DecrementActiveWorkerCount()
			return true
		}
	}
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, state jobmodel.JobState) {
	job.State = state
	persistJob(ctx, job)
}

func persistJob(ctx context.Context, job jobmodel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job in Redis", "err", err)
	}
}
