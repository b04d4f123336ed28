package ingest

import (
	"context"
	"fmt"

	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/embedding"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

type Status string

const (
	IngestComplete Status = "COMPLETE"
	IngestPartial  Status = "PARTIAL"
	IngestFailed   Status = "FAILED"
)

// Parser turns a file into ordered text segments.
type Parser interface {
	ParseFile(ctx context.Context, path string) ([]string, error)
}

// IngestResult reports how far a document got. On PARTIAL the rows already
// written stay in place and SegmentIDs lists them.
type IngestResult struct {
	DocumentPath     string
	CourseID         int
	Status           Status
	SegmentIDs       []int64
	SegmentsParsed   int
	EmbeddingsStored int
	Err              error
}

type Pipeline struct {
	parser    Parser
	embedder  embedding.Embedder
	documents commonModels.DocumentStore
	segments  commonModels.SegmentStore
	vectors   vectorDB.VectorStore
	dims      int
	logger    *logger_i.Logger
}

type PipelineConfig struct {
	Parser     Parser
	Embedder   embedding.Embedder
	Documents  commonModels.DocumentStore
	Segments   commonModels.SegmentStore
	Vectors    vectorDB.VectorStore
	// Dimensions every embedding must have. 0 accepts any length.
	Dimensions int
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		parser:    cfg.Parser,
		embedder:  cfg.Embedder,
		documents: cfg.Documents,
		segments:  cfg.Segments,
		vectors:   cfg.Vectors,
		dims:      cfg.Dimensions,
		logger:    logger_i.NewLogger("Document Ingestion"),
	}
}

// Ingest parses the file, registers the document, then stores and embeds each
// segment in extraction order. A parse failure leaves no document row behind.
// No step is retried.
func (p *Pipeline) Ingest(ctx context.Context, path string, courseID int) IngestResult {
	log := p.logger.ForContext(ctx).With("path", path, "courseId", courseID)
	result := IngestResult{DocumentPath: path, CourseID: courseID}

	segments, err := p.parser.ParseFile(ctx, path)
	if err != nil {
		log.Warn("Could not parse document", "error", err)
		result.Status = IngestFailed
		result.Err = err
		return result
	}
	result.SegmentsParsed = len(segments)
	log.Debug("Parsed document", "segments", len(segments))

	if _, err := p.documents.AddDocument(ctx, path, courseID); err != nil {
		log.Error("Could not register document", "error", err)
		result.Status = IngestFailed
		result.Err = fmt.Errorf("add document: %w", err)
		return result
	}

	for i, text := range segments {
		if err := p.ingestSegment(ctx, &result, text); err != nil {
			log.Error("Ingestion stopped", "segment", i, "error", err)
			result.Status = IngestPartial
			result.Err = err
			metrics.AddSegmentsIngested(result.EmbeddingsStored)
			return result
		}
	}

	metrics.AddSegmentsIngested(result.EmbeddingsStored)
	result.Status = IngestComplete
	log.Info("Document ingested", "segments", len(result.SegmentIDs))
	return result
}

func (p *Pipeline) ingestSegment(ctx context.Context, result *IngestResult, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := p.segments.StoreSegment(ctx, text, result.DocumentPath)
	if err != nil {
		return fmt.Errorf("store segment: %w", err)
	}
	result.SegmentIDs = append(result.SegmentIDs, id)

	vector, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("embed segment %d: %w", id, err)
	}
	if err := vectorDB.CheckDimensions(vector, p.dims); err != nil {
		return fmt.Errorf("embed segment %d: %w", id, err)
	}

	segment := commonModels.Segment{
		ID:           id,
		DocumentPath: result.DocumentPath,
		CourseID:     result.CourseID,
		Text:         text,
	}
	if err := p.vectors.StoreEmbedding(ctx, segment, vector); err != nil {
		return fmt.Errorf("store embedding %d: %w", id, err)
	}
	result.EmbeddingsStored++
	return nil
}
