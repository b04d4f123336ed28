package store

import (
	"context"
	"sync"

	"github.com/akolanti/CourseRAG/internal/domain/jobModel"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

var _ jobModel.JobStore = (*InMemoryJobStore)(nil)

// InMemoryJobStore is the job store used when redis is offline. Jobs never
// expire.
type InMemoryJobStore struct {
	jobMutex sync.RWMutex
	jobMap   map[string]jobModel.Job
	logger   *logger_i.Logger
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobMap: make(map[string]jobModel.Job),
		logger: logger_i.NewLogger("InMem JobStore"),
	}
}

func (s *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()
	s.jobMap[job.Id] = job
	s.logger.ForContext(ctx).Debug("Saved job to store", "jobId", job.Id, "status", job.Status)
	return nil
}

func (s *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	s.jobMutex.RLock()
	defer s.jobMutex.RUnlock()
	result, found := s.jobMap[jobId]
	return result, found
}

func (s *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()
	delete(s.jobMap, jobID)
}
