package rag

import (
	"context"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/embedding"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

// Retriever finds the course segments closest to a prompt.
type Retriever struct {
	embedder embedding.Embedder
	vectors  vectorDB.VectorStore
	dims     int
	logger   *logger_i.Logger
}

// NewRetriever checks every prompt embedding against dims. 0 accepts any
// length.
func NewRetriever(embedder embedding.Embedder, vectors vectorDB.VectorStore, dims int) *Retriever {
	return &Retriever{
		embedder: embedder,
		vectors:  vectors,
		dims:     dims,
		logger:   logger_i.NewLogger("Retriever"),
	}
}

// GetSegmentsFor returns up to numSegments segments of active documents in
// courseID, nearest first. numSegments <= 0 means the default of 3. A course
// with nothing indexed yields an empty slice, not an error.
func (r *Retriever) GetSegmentsFor(ctx context.Context, prompt string, courseID int, numSegments int) ([]commonModels.RetrievedSegment, error) {
	if numSegments <= 0 {
		numSegments = config.DefaultNumSegments
	}
	log := r.logger.ForContext(ctx).With("courseId", courseID)

	start := time.Now()
	query, err := r.embedder.EmbedText(ctx, prompt)
	if err != nil {
		log.Error("Could not embed prompt", "error", err)
		return nil, err
	}
	if err := vectorDB.CheckDimensions(query, r.dims); err != nil {
		log.Error("Prompt embedding has the wrong size", "error", err)
		return nil, err
	}

	matches, err := r.vectors.Nearest(ctx, courseID, query, numSegments)
	if err != nil {
		log.Error("Vector search failed", "error", err)
		return nil, err
	}
	metrics.CaptureExecutionMetrics("retrieval", time.Since(start))

	segments := make([]commonModels.RetrievedSegment, 0, len(matches))
	for _, m := range matches {
		segments = append(segments, m.ToRetrievedSegment())
	}
	log.Debug("Retrieved segments", "count", len(segments))
	return segments, nil
}
