package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/CourseRAG/internal/api"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/domain/jobModel"
)

func ToInitJobResponse(id string, documentPath string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:           id,
		StatusURL:    fmt.Sprintf("status/%s", id),
		DocumentPath: documentPath,
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Step:   string(job.CurrentStep),
		Ingest: ToIngestResponse(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

// ToIngestResponse is nil until a worker has run the pipeline.
func ToIngestResponse(payload jobModel.JobPayload) *api.IngestResponse {
	outcome := payload.Outcome
	if outcome == nil {
		return nil
	}
	ids := outcome.SegmentIDs
	if ids == nil {
		ids = []int64{}
	}
	return &api.IngestResponse{
		DocumentPath:     payload.DocumentPath,
		CourseID:         payload.CourseID,
		Status:           outcome.Status,
		SegmentIDs:       ids,
		SegmentsParsed:   outcome.SegmentsParsed,
		EmbeddingsStored: outcome.EmbeddingsStored,
		Error:            outcome.Error,
	}
}

func ToSegmentsResponse(courseID int, segments []commonModels.RetrievedSegment) api.SegmentsResponse {
	out := make([]api.Segment, 0, len(segments))
	for _, s := range segments {
		out = append(out, api.Segment{ID: s.ID, Text: s.Text, DocumentID: s.DocumentID})
	}
	return api.SegmentsResponse{CourseID: courseID, Segments: out}
}

func ToDocumentsResponse(courseID int, paths []string) api.DocumentsResponse {
	if paths == nil {
		paths = []string{}
	}
	return api.DocumentsResponse{CourseID: courseID, Documents: paths}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
