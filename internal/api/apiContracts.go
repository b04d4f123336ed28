package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"can_retry"`
}

// IngestResponse mirrors the pipeline outcome for a finished job.
type IngestResponse struct {
	DocumentPath     string  `json:"document_path"`
	CourseID         int     `json:"course_id"`
	Status           string  `json:"status"`
	SegmentIDs       []int64 `json:"segment_ids"`
	SegmentsParsed   int     `json:"segments_parsed"`
	EmbeddingsStored int     `json:"embeddings_stored"`
	Error            string  `json:"error,omitempty"`
}

type Result struct {
	Status string          `json:"status"`
	Step   string          `json:"step,omitempty"`
	Ingest *IngestResponse `json:"ingest,omitempty"`
}

type InitJobResponse struct {
	Id           string `json:"id"`
	StatusURL    string `json:"status_url"`
	DocumentPath string `json:"document_path"`
}

type Segment struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	DocumentID string `json:"document_id"`
}

type SegmentsResponse struct {
	CourseID int       `json:"course_id"`
	Segments []Segment `json:"segments"`
}

type DocumentsResponse struct {
	CourseID  int      `json:"course_id"`
	Documents []string `json:"documents"`
}

// requests---------------------

type SegmentsRequest struct {
	Prompt      string `json:"prompt" validate:"required"`
	NumSegments int    `json:"num_segments,omitempty"`
}
