package rag_test

import (
	"context"

	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/rag/ingest"
)

// MockPipeline implements rag.Ingester
type MockPipeline struct {
	OnIngest func(ctx context.Context, path string, courseID int) ingest.IngestResult
}

func (m *MockPipeline) Ingest(ctx context.Context, path string, courseID int) ingest.IngestResult {
	if m.OnIngest != nil {
		return m.OnIngest(ctx, path, courseID)
	}
	return ingest.IngestResult{DocumentPath: path, CourseID: courseID, Status: ingest.IngestComplete}
}

type MockRetriever struct {
	OnGetSegmentsFor func(ctx context.Context, prompt string, courseID int, n int) ([]commonModels.RetrievedSegment, error)
}

func (m *MockRetriever) GetSegmentsFor(ctx context.Context, prompt string, courseID int, n int) ([]commonModels.RetrievedSegment, error) {
	if m.OnGetSegmentsFor != nil {
		return m.OnGetSegmentsFor(ctx, prompt, courseID, n)
	}
	return []commonModels.RetrievedSegment{}, nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnEmbedText func(ctx context.Context, text string) ([]float64, error)
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if m.OnEmbedText != nil {
		return m.OnEmbedText(ctx, text)
	}
	return []float64{0.1, 0.2}, nil
}

// MockVectorStore implements vectorDB.VectorStore
type MockVectorStore struct {
	OnNearest func(ctx context.Context, courseID int, query []float64, k int) ([]commonModels.NearestMatch, error)
}

func (m *MockVectorStore) StoreEmbedding(ctx context.Context, segment commonModels.Segment, vector []float64) error {
	return nil
}

func (m *MockVectorStore) Nearest(ctx context.Context, courseID int, query []float64, k int) ([]commonModels.NearestMatch, error) {
	if m.OnNearest != nil {
		return m.OnNearest(ctx, courseID, query, k)
	}
	return nil, nil
}
