package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var _ vectorDB.VectorStore = (*ClientHolder)(nil)

const (
	payloadText     = "text"
	payloadDocument = "document_id"
	payloadCourse   = "course_id"
)

// ActiveDocuments is the slice of the document store the vector search needs:
// which paths of a course are still active.
type ActiveDocuments interface {
	ListActiveByCourse(ctx context.Context, courseID int) ([]string, error)
}

type Config struct {
	Host       string
	Port       int
	Collection string
	Dimensions int
}

// ClientHolder stores one point per segment, keyed by the numeric segment id,
// with the segment text and its document and course in the payload.
type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	documents  ActiveDocuments
	logger     *logger_i.Logger
}

func NewQdrantStore(ctx context.Context, cfg Config, documents ActiveDocuments) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")
	if cfg.Host == "" {
		cfg.Host = config.QdrantHost
	}
	if cfg.Port == 0 {
		cfg.Port = config.QdrantGrpcPort
	}
	if cfg.Collection == "" {
		cfg.Collection = config.SegmentCollectionName
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = config.EmbeddingDimensions
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil, err
	}

	if err := createCollection(ctx, client, cfg.Collection, uint64(cfg.Dimensions)); err != nil {
		logger.Error("could not create collection", "collectionName", cfg.Collection, "error", err)
		client.Close()
		return nil, err
	}

	go closeQdrant(ctx, client, logger)
	return &ClientHolder{
		QObj:       client,
		collection: cfg.Collection,
		documents:  documents,
		logger:     logger,
	}, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client, logger *logger_i.Logger) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) StoreEmbedding(ctx context.Context, segment commonModels.Segment, vector []float64) error {
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         []*qdrant.PointStruct{toPoint(segment, vector)},
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Nearest(ctx context.Context, courseID int, query []float64, k int) ([]commonModels.NearestMatch, error) {
	if k <= 0 {
		return []commonModels.NearestMatch{}, nil
	}
	log := db.logger.ForContext(ctx)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	active, err := db.documents.ListActiveByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return []commonModels.NearestMatch{}, nil
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vectorDB.ToFloat32(query)...),
		Filter:         courseFilter(courseID, active),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	log.Debug("Found matches", "count", len(result))
	return vectorDB.SortMatches(toMatches(result), k), nil
}

func toPoint(segment commonModels.Segment, vector []float64) *qdrant.PointStruct {
	return &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(segment.ID)),
		Vectors: qdrant.NewVectors(vectorDB.ToFloat32(vector)...),
		Payload: qdrant.NewValueMap(map[string]any{
			payloadText:     segment.Text,
			payloadDocument: segment.DocumentPath,
			payloadCourse:   int64(segment.CourseID),
		}),
	}
}

// courseFilter keeps points of the course whose document is still active.
func courseFilter(courseID int, activePaths []string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatchInt(payloadCourse, int64(courseID)),
			qdrant.NewMatchKeywords(payloadDocument, activePaths...),
		},
	}
}

// toMatches reads Euclid scores, which qdrant reports as the distance itself.
func toMatches(hits []*qdrant.ScoredPoint) []commonModels.NearestMatch {
	matches := make([]commonModels.NearestMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, commonModels.NearestMatch{
			SegmentID:  int64(hit.GetId().GetNum()),
			Text:       hit.GetPayload()[payloadText].GetStringValue(),
			DocumentID: hit.GetPayload()[payloadDocument].GetStringValue(),
			Distance:   float64(hit.GetScore()),
		})
	}
	return matches
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Euclid,
		}),
	})
	if err != nil {
		return err
	}

	for field, fieldType := range map[string]qdrant.FieldType{
		payloadCourse:   qdrant.FieldType_FieldTypeInteger,
		payloadDocument: qdrant.FieldType_FieldTypeKeyword,
	} {
		_, err = client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: collectionName,
			FieldName:      field,
			FieldType:      fieldType.Enum(),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("index %s: %w", field, err)
		}
	}
	return nil
}
