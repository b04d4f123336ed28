package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/data/redisStore"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var _ commonModels.SegmentStore = (*RedisSegmentStore)(nil)

const segmentSequenceKey = "segment:seq"

func segmentKey(id int64) string {
	return "segment:" + strconv.FormatInt(id, 10)
}

func documentSegmentsKey(path string) string {
	return "document:" + path + ":segments"
}

// RedisSegmentStore assigns ids from an INCR counter, so ids grow with
// insertion order across the whole store.
type RedisSegmentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSegmentStore(ctx context.Context, conn redisStore.Connection) *RedisSegmentStore {
	s := redisStore.GetRedisStore(ctx, conn, config.RedisCourseStore)
	if s == nil {
		return nil
	}
	return NewRedisSegmentStore(s)
}

func NewRedisSegmentStore(s *redisStore.Store) *RedisSegmentStore {
	return &RedisSegmentStore{
		store:  s,
		logger: logger_i.NewLogger("SegmentStore"),
	}
}

func (s *RedisSegmentStore) StoreSegment(ctx context.Context, text string, documentPath string) (int64, error) {
	exists, err := s.store.Exists(ctx, documentKey(documentPath))
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, commonModels.ErrDocumentNotFound
	}

	id, err := s.store.Incr(ctx, segmentSequenceKey)
	if err != nil {
		return 0, fmt.Errorf("allocate segment id: %w", err)
	}
	err = s.store.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, segmentKey(id), "text", text, "document_path", documentPath)
		pipe.RPush(ctx, documentSegmentsKey(documentPath), id)
		return nil
	})
	if err != nil {
		s.logger.ForContext(ctx).Error("Failed to save segment", "segmentId", id, "error", err)
		return 0, err
	}
	return id, nil
}

// GetSegment reads one segment back.
func (s *RedisSegmentStore) GetSegment(ctx context.Context, id int64) (commonModels.Segment, error) {
	fields, err := s.store.HGetAll(ctx, segmentKey(id))
	if err != nil {
		return commonModels.Segment{}, err
	}
	if len(fields) == 0 {
		return commonModels.Segment{}, errSegmentNotFound(id)
	}
	return commonModels.Segment{ID: id, DocumentPath: fields["document_path"], Text: fields["text"]}, nil
}

// SegmentIDs lists a document's segment ids in insertion order.
func (s *RedisSegmentStore) SegmentIDs(ctx context.Context, documentPath string) ([]int64, error) {
	raw, err := s.store.LRange(ctx, documentSegmentsKey(documentPath), 0, -1)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
