package job

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/domain/jobModel"
	"github.com/akolanti/CourseRAG/internal/metrics"
)

// Service is the queue between the upload handler and the worker pool.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
	}
}

// Enqueue records the job as queued and hands it to the workers. The channel
// send blocks when the buffer is full, which throttles uploads. Every
// RequestsPerNewWorkerCount jobs the dispatcher is asked for another worker.
func (s *Service) Enqueue(ctx context.Context, j jobModel.Job) error {
	j.Status = jobModel.JobStatusQueued
	j.CurrentStep = jobModel.IngestInit
	if err := s.JobStore.SaveJob(ctx, j); err != nil {
		return err
	}

	metrics.IncrementJobsInQueue()
	s.JobChannel <- j

	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 {
		select {
		case s.DispatcherChannel <- true:
			metrics.StartDispatcherSignalCount()
		default:
			// a signal is already pending
		}
	}
	return nil
}

func (s *Service) Status(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}
