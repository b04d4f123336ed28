package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	jobmodel "github.com/akolanti/CourseRAG/internal/domain/jobModel"
	"github.com/akolanti/CourseRAG/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobTimeout)
	defer cancel()
	log := logger.ForContext(ctxTrace).With("jobId", job.Id)
	log.Debug("Processing ingestion job", "path", job.JobPayload.DocumentPath)

	job.CurrentStep = jobmodel.IngestProcessing
	saveJobState(ctxTrace, job, jobmodel.JobStatusRunning)

	job = _ragService.IngestDocument(ctx, job)
	job.EndTime = time.Now()

	// the final state is written even when the job ran out of time
	if job.Status == jobmodel.JobStatusError {
		saveJobState(ctxTrace, job, jobmodel.JobStatusError)
		return
	}
	saveJobState(ctxTrace, job, jobmodel.JobStatusComplete)
	log.Info("Ingestion job finished", "elapsed", time.Since(start))
}

func removeWorker(reason string) {
	atomic.AddInt64(&currentWorkerCount, -1)
	releaseWorker(reason)
}

// releaseWorker is removeWorker for callers that already took the worker off
// the count.
func releaseWorker(reason string) {
	workerWaitGroup.Done()
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to save job state", "jobId", job.Id, "err", err)
	}
}
