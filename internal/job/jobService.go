package job

import (
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	StatusStore       jobModel.StatusStore
	ResultStore       jobModel.ResultStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	StatusStore       jobModel.StatusStore
	ResultStore       jobModel.ResultStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		StatusStore:       cfg.StatusStore,
		ResultStore:       cfg.ResultStore,
	}
}
