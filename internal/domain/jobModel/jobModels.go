package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	IngestParsing    InternalStatus = "Parsing"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

// Job is one queued document ingestion.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	FileName     string `json:"file_name,omitempty"`
	DocumentPath string `json:"document_path"`
	CourseID     int    `json:"course_id"`

	Outcome *IngestOutcome `json:"outcome,omitempty"`
}

// IngestOutcome is what the pipeline reported for the document.
type IngestOutcome struct {
	Status           string  `json:"status"`
	SegmentIDs       []int64 `json:"segment_ids,omitempty"`
	SegmentsParsed   int     `json:"segments_parsed"`
	EmbeddingsStored int     `json:"embeddings_stored"`
	Error            string  `json:"error,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
