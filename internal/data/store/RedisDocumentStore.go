package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/data/redisStore"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var _ commonModels.DocumentStore = (*RedisDocumentStore)(nil)

const (
	activeDocumentsKey  = "documents:active"
	documentFieldPath   = "path"
	documentFieldCourse = "course_id"
	documentFieldLive   = "active"
)

func documentKey(path string) string {
	return "document:" + path
}

func courseActiveKey(courseID int) string {
	return fmt.Sprintf("course:%d:documents:active", courseID)
}

// RedisDocumentStore keeps one hash per document plus active-path sets,
// globally and per course.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisDocumentStore returns nil when redis is offline.
func GetRedisDocumentStore(ctx context.Context, conn redisStore.Connection) *RedisDocumentStore {
	s := redisStore.GetRedisStore(ctx, conn, config.RedisCourseStore)
	if s == nil {
		return nil
	}
	return NewRedisDocumentStore(s)
}

func NewRedisDocumentStore(s *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  s,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) AddDocument(ctx context.Context, path string, courseID int) (commonModels.DocumentRef, error) {
	log := s.logger.ForContext(ctx).With("path", path)

	created, err := s.store.HSetNX(ctx, documentKey(path), documentFieldPath, path)
	if err != nil {
		return commonModels.DocumentRef{}, err
	}
	if !created {
		return commonModels.DocumentRef{}, commonModels.ErrDocumentExists
	}

	err = s.store.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, documentKey(path), documentFieldCourse, courseID, documentFieldLive, "1")
		pipe.SAdd(ctx, activeDocumentsKey, path)
		pipe.SAdd(ctx, courseActiveKey(courseID), path)
		return nil
	})
	if err != nil {
		log.Error("Failed to save document", "error", err)
		return commonModels.DocumentRef{}, err
	}
	log.Debug("Saved document to Redis", "courseId", courseID)
	return commonModels.DocumentRef{Path: path, CourseID: courseID, Active: true}, nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, path string) (commonModels.DocumentRef, error) {
	fields, err := s.store.HGetAll(ctx, documentKey(path))
	if err != nil {
		return commonModels.DocumentRef{}, err
	}
	if len(fields) == 0 {
		return commonModels.DocumentRef{}, commonModels.ErrDocumentNotFound
	}
	courseID, err := strconv.Atoi(fields[documentFieldCourse])
	if err != nil {
		return commonModels.DocumentRef{}, fmt.Errorf("document %q has a corrupt course id: %w", path, err)
	}
	return commonModels.DocumentRef{
		Path:     path,
		CourseID: courseID,
		Active:   fields[documentFieldLive] == "1",
	}, nil
}

func (s *RedisDocumentStore) SetInactive(ctx context.Context, path string) error {
	doc, err := s.GetDocument(ctx, path)
	if err != nil {
		return err
	}
	return s.store.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, documentKey(path), documentFieldLive, "0")
		pipe.SRem(ctx, activeDocumentsKey, path)
		pipe.SRem(ctx, courseActiveKey(doc.CourseID), path)
		return nil
	})
}

func (s *RedisDocumentStore) ListActive(ctx context.Context) ([]string, error) {
	return s.sortedMembers(ctx, activeDocumentsKey)
}

func (s *RedisDocumentStore) ListActiveByCourse(ctx context.Context, courseID int) ([]string, error) {
	return s.sortedMembers(ctx, courseActiveKey(courseID))
}

func (s *RedisDocumentStore) sortedMembers(ctx context.Context, key string) ([]string, error) {
	paths, err := s.store.SMembers(ctx, key)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
