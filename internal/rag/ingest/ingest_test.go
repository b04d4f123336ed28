package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/CourseRAG/internal/data/store"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/rag/embedding/stubEmbedding"
	"github.com/akolanti/CourseRAG/internal/rag/fileParsing"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockParser struct {
	onParse func(ctx context.Context, path string) ([]string, error)
}

func (m *mockParser) ParseFile(ctx context.Context, path string) ([]string, error) {
	return m.onParse(ctx, path)
}

type mockEmbedder struct {
	calls   int
	failOn  int
	vectors [][]float64
}

func (m *mockEmbedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	m.calls++
	if m.calls == m.failOn {
		return nil, errors.New("embedding service timeout")
	}
	return m.vectors[(m.calls-1)%len(m.vectors)], nil
}

func segmentsParser(segments ...string) *mockParser {
	return &mockParser{onParse: func(ctx context.Context, path string) ([]string, error) {
		return segments, nil
	}}
}

func newPipeline(parser Parser, e *mockEmbedder, s *store.InMemoryCourseStore) *Pipeline {
	return NewPipeline(PipelineConfig{
		Parser:    parser,
		Embedder:  e,
		Documents: s,
		Segments:  s,
		Vectors:   s,
	})
}

// --- Unit Tests ---

func TestIngest_Complete(t *testing.T) {
	s := store.InitInMemoryCourseStore()
	e := &mockEmbedder{vectors: [][]float64{{1, 0}, {0, 1}}}
	p := newPipeline(segmentsParser("first.", "second."), e, s)

	result := p.Ingest(context.Background(), "7/notes.txt", 7)

	require.NoError(t, result.Err)
	assert.Equal(t, IngestComplete, result.Status)
	assert.Equal(t, 2, result.SegmentsParsed)
	assert.Equal(t, 2, result.EmbeddingsStored)
	require.Len(t, result.SegmentIDs, 2)

	stored := s.Segments("7/notes.txt")
	require.Len(t, stored, 2)
	assert.Equal(t, "first.", stored[0].Text)
	assert.Equal(t, "second.", stored[1].Text)
	assert.Equal(t, result.SegmentIDs[0], stored[0].ID)

	doc, err := s.GetDocument(context.Background(), "7/notes.txt")
	require.NoError(t, err)
	assert.True(t, doc.Active)
	assert.Equal(t, 7, doc.CourseID)
}

func TestIngest_ParseFailureLeavesNoDocument(t *testing.T) {
	s := store.InitInMemoryCourseStore()
	parser := &mockParser{onParse: func(ctx context.Context, path string) ([]string, error) {
		return nil, &fileParsing.FileParsingError{Path: path, Format: fileParsing.FormatPDF, Err: errors.New("corrupt")}
	}}
	p := newPipeline(parser, &mockEmbedder{vectors: [][]float64{{1}}}, s)

	result := p.Ingest(context.Background(), "7/broken.pdf", 7)

	assert.Equal(t, IngestFailed, result.Status)
	assert.ErrorIs(t, result.Err, fileParsing.ErrFileParsing)
	_, err := s.GetDocument(context.Background(), "7/broken.pdf")
	assert.ErrorIs(t, err, commonModels.ErrDocumentNotFound)
}

func TestIngest_EmbeddingFailureIsPartial(t *testing.T) {
	s := store.InitInMemoryCourseStore()
	e := &mockEmbedder{failOn: 2, vectors: [][]float64{{1, 1}}}
	p := newPipeline(segmentsParser("one.", "two.", "three."), e, s)

	result := p.Ingest(context.Background(), "7/notes.txt", 7)

	assert.Equal(t, IngestPartial, result.Status)
	assert.ErrorContains(t, result.Err, "embedding service timeout")
	assert.Equal(t, 3, result.SegmentsParsed)
	assert.Equal(t, 1, result.EmbeddingsStored)
	// the segment whose embedding failed was already stored
	assert.Len(t, result.SegmentIDs, 2)
	assert.Len(t, s.Segments("7/notes.txt"), 2)
	assert.Equal(t, 1, s.EmbeddingCount())
}

func TestIngest_WrongDimensionIsPartial(t *testing.T) {
	s := store.InitInMemoryCourseStore()
	p := NewPipeline(PipelineConfig{
		Parser:     segmentsParser("one.", "two."),
		Embedder:   stubEmbedding.NewStubEmbedder(nil),
		Documents:  s,
		Segments:   s,
		Vectors:    s,
		Dimensions: 768,
	})

	result := p.Ingest(context.Background(), "7/notes.txt", 7)

	assert.Equal(t, IngestPartial, result.Status)
	assert.ErrorIs(t, result.Err, vectorDB.ErrDimensionMismatch)
	assert.Equal(t, 0, result.EmbeddingsStored)
	assert.Equal(t, 0, s.EmbeddingCount())
}

func TestIngest_DuplicateDocumentFails(t *testing.T) {
	s := store.InitInMemoryCourseStore()
	_, err := s.AddDocument(context.Background(), "7/notes.txt", 7)
	require.NoError(t, err)
	p := newPipeline(segmentsParser("one."), &mockEmbedder{vectors: [][]float64{{1}}}, s)

	result := p.Ingest(context.Background(), "7/notes.txt", 7)

	assert.Equal(t, IngestFailed, result.Status)
	assert.ErrorIs(t, result.Err, commonModels.ErrDocumentExists)
}

func TestIngest_CancelledContextStopsBetweenSegments(t *testing.T) {
	s := store.InitInMemoryCourseStore()
	ctx, cancel := context.WithCancel(context.Background())
	parser := &mockParser{onParse: func(context.Context, string) ([]string, error) {
		cancel()
		return []string{"one.", "two."}, nil
	}}
	p := newPipeline(parser, &mockEmbedder{vectors: [][]float64{{1}}}, s)

	result := p.Ingest(ctx, "7/notes.txt", 7)

	assert.Equal(t, IngestPartial, result.Status)
	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.Empty(t, result.SegmentIDs)
}

func TestIngest_RealParserAndStubEmbedder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello. World."), 0o644))
	s := store.InitInMemoryCourseStore()
	p := NewPipeline(PipelineConfig{
		Parser:    fileParsing.NewParser(fileParsing.DefaultOptions(), nil),
		Embedder:  stubEmbedding.NewStubEmbedder([]float64{0.1, -0.2, 0.3, 0.4}),
		Documents: s,
		Segments:  s,
		Vectors:   s,
	})

	result := p.Ingest(context.Background(), path, 3)

	require.Equal(t, IngestComplete, result.Status)
	matches, err := s.Nearest(context.Background(), 3, []float64{0.1, -0.2, 0.3, 0.4}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Hello. World.", matches[0].Text)
	assert.InDelta(t, 0, matches[0].Distance, 1e-12)
}
