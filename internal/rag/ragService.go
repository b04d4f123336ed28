package rag

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/domain/jobModel"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/fileParsing"
	"github.com/akolanti/CourseRAG/internal/rag/ingest"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

/*
Service is the opaque contract the worker and handlers call. The private
service struct owns the pipeline, retriever and document store so callers
never touch the stores directly, and tests can swap in mocks through
NewService.
*/
type Service interface {
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	GetSegmentsFor(ctx context.Context, prompt string, courseID int, numSegments int) ([]commonModels.RetrievedSegment, error)
	DeactivateDocument(ctx context.Context, path string) error
	ListActiveDocuments(ctx context.Context, courseID int) ([]string, error)
}

// Ingester is satisfied by *ingest.Pipeline.
type Ingester interface {
	Ingest(ctx context.Context, path string, courseID int) ingest.IngestResult
}

// SegmentRetriever is satisfied by *Retriever.
type SegmentRetriever interface {
	GetSegmentsFor(ctx context.Context, prompt string, courseID int, numSegments int) ([]commonModels.RetrievedSegment, error)
}

type service struct {
	pipeline  Ingester
	retriever SegmentRetriever
	documents commonModels.DocumentStore
	logger    *logger_i.Logger
}

func NewService(pipeline Ingester, retriever SegmentRetriever, documents commonModels.DocumentStore) Service {
	return &service{
		pipeline:  pipeline,
		retriever: retriever,
		documents: documents,
		logger:    logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.ForContext(ctx).With("jobId", job.Id)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	job = logOutput(job, jobModel.IngestParsing, log)
	result := s.pipeline.Ingest(ctx, job.JobPayload.DocumentPath, job.JobPayload.CourseID)
	job.JobPayload.Outcome = toOutcome(result)
	metrics.CountIngestResult(string(result.Status))

	switch result.Status {
	case ingest.IngestComplete:
		return returnOutput(job)
	case ingest.IngestFailed:
		if errors.Is(result.Err, fileParsing.ErrFileParsing) {
			// nothing references the upload once parsing failed
			if err := os.Remove(job.JobPayload.DocumentPath); err != nil {
				log.Warn("Could not remove unparseable upload", "error", err)
			}
			return s.jobError(job, result.Err, "FILE_PARSING_FAILURE", false)
		}
		return s.jobError(job, result.Err, "INGESTION_FAILURE", true)
	default:
		return s.jobError(job, result.Err, "PARTIAL_INGESTION", true)
	}
}

func (s *service) GetSegmentsFor(ctx context.Context, prompt string, courseID int, numSegments int) ([]commonModels.RetrievedSegment, error) {
	return s.retriever.GetSegmentsFor(ctx, prompt, courseID, numSegments)
}

func (s *service) DeactivateDocument(ctx context.Context, path string) error {
	if err := s.documents.SetInactive(ctx, path); err != nil {
		return err
	}
	s.logger.ForContext(ctx).Info("Document deactivated", "path", path)
	return nil
}

func (s *service) ListActiveDocuments(ctx context.Context, courseID int) ([]string, error) {
	return s.documents.ListActiveByCourse(ctx, courseID)
}
