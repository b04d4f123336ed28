package rag

import (
	"net/http"

	"github.com/akolanti/CourseRAG/internal/domain/jobModel"
	"github.com/akolanti/CourseRAG/internal/rag/ingest"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

func returnOutput(job jobModel.Job) jobModel.Job {
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("IngestDocument", "Current Status", job.CurrentStep)
	return job
}

func toOutcome(result ingest.IngestResult) *jobModel.IngestOutcome {
	outcome := &jobModel.IngestOutcome{
		Status:           string(result.Status),
		SegmentIDs:       result.SegmentIDs,
		SegmentsParsed:   result.SegmentsParsed,
		EmbeddingsStored: result.EmbeddingsStored,
	}
	if result.Err != nil {
		outcome.Error = result.Err.Error()
	}
	return outcome
}

// jobError marks the job failed. Parsing failures are the uploader's to fix,
// the rest are ours.
func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "jobId", job.Id, "error", err)

	code := http.StatusInternalServerError
	text := "Internal Server Error"
	if !canRetry {
		code = http.StatusUnprocessableEntity
		text = err.Error()
	}
	job.Error = jobModel.JobError{
		Code:    code,
		Message: text,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}
