package store

import (
	"context"
	"sort"
	"sync"

	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

var (
	_ commonModels.DocumentStore = (*InMemoryCourseStore)(nil)
	_ commonModels.SegmentStore  = (*InMemoryCourseStore)(nil)
	_ vectorDB.VectorStore       = (*InMemoryCourseStore)(nil)
)

// InMemoryCourseStore keeps documents, segments and embeddings in maps and
// searches by brute force. It backs tests and the redis-offline fallback.
// The first stored embedding fixes the vector dimension.
type InMemoryCourseStore struct {
	mu            sync.RWMutex
	documents     map[string]commonModels.DocumentRef
	segments      map[int64]commonModels.Segment
	embeddings    map[int64][]float64
	lastSegmentID int64
	dims          int
	logger        *logger_i.Logger
}

func InitInMemoryCourseStore() *InMemoryCourseStore {
	return &InMemoryCourseStore{
		documents:  make(map[string]commonModels.DocumentRef),
		segments:   make(map[int64]commonModels.Segment),
		embeddings: make(map[int64][]float64),
		logger:     logger_i.NewLogger("InMem CourseStore"),
	}
}

func (s *InMemoryCourseStore) AddDocument(ctx context.Context, path string, courseID int) (commonModels.DocumentRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.documents[path]; exists {
		return commonModels.DocumentRef{}, commonModels.ErrDocumentExists
	}
	doc := commonModels.DocumentRef{Path: path, CourseID: courseID, Active: true}
	s.documents[path] = doc
	s.logger.Debug("Saved document", "path", path, "courseId", courseID)
	return doc, nil
}

func (s *InMemoryCourseStore) GetDocument(ctx context.Context, path string) (commonModels.DocumentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.documents[path]
	if !exists {
		return commonModels.DocumentRef{}, commonModels.ErrDocumentNotFound
	}
	return doc, nil
}

func (s *InMemoryCourseStore) SetInactive(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.documents[path]
	if !exists {
		return commonModels.ErrDocumentNotFound
	}
	doc.Active = false
	s.documents[path] = doc
	return nil
}

func (s *InMemoryCourseStore) ListActive(ctx context.Context) ([]string, error) {
	return s.listActive(func(commonModels.DocumentRef) bool { return true }), nil
}

func (s *InMemoryCourseStore) ListActiveByCourse(ctx context.Context, courseID int) ([]string, error) {
	return s.listActive(func(d commonModels.DocumentRef) bool { return d.CourseID == courseID }), nil
}

func (s *InMemoryCourseStore) listActive(keep func(commonModels.DocumentRef) bool) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.documents))
	for path, doc := range s.documents {
		if doc.Active && keep(doc) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func (s *InMemoryCourseStore) StoreSegment(ctx context.Context, text string, documentPath string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.documents[documentPath]
	if !exists {
		return 0, commonModels.ErrDocumentNotFound
	}
	s.lastSegmentID++
	s.segments[s.lastSegmentID] = commonModels.Segment{
		ID:           s.lastSegmentID,
		DocumentPath: documentPath,
		CourseID:     doc.CourseID,
		Text:         text,
	}
	return s.lastSegmentID, nil
}

func (s *InMemoryCourseStore) StoreEmbedding(ctx context.Context, segment commonModels.Segment, vector []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.segments[segment.ID]; !exists {
		return errSegmentNotFound(segment.ID)
	}
	if err := vectorDB.CheckDimensions(vector, s.dims); err != nil {
		return err
	}
	if s.dims == 0 {
		s.dims = len(vector)
	}
	stored := make([]float64, len(vector))
	copy(stored, vector)
	s.embeddings[segment.ID] = stored
	return nil
}

func (s *InMemoryCourseStore) Nearest(ctx context.Context, courseID int, query []float64, k int) ([]commonModels.NearestMatch, error) {
	if k <= 0 {
		return []commonModels.NearestMatch{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := vectorDB.CheckDimensions(query, s.dims); err != nil {
		return nil, err
	}
	matches := make([]commonModels.NearestMatch, 0)
	for id, vector := range s.embeddings {
		segment := s.segments[id]
		doc, exists := s.documents[segment.DocumentPath]
		if !exists || !doc.Active || doc.CourseID != courseID {
			continue
		}
		distance, err := vectorDB.L2Distance(query, vector)
		if err != nil {
			return nil, err
		}
		matches = append(matches, commonModels.NearestMatch{
			SegmentID:  id,
			Text:       segment.Text,
			DocumentID: segment.DocumentPath,
			Distance:   distance,
		})
	}
	return vectorDB.SortMatches(matches, k), nil
}

// Segments returns the stored segments of a document in id order, for
// inspection in tests and tooling.
func (s *InMemoryCourseStore) Segments(documentPath string) []commonModels.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []commonModels.Segment
	for _, segment := range s.segments {
		if segment.DocumentPath == documentPath {
			out = append(out, segment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EmbeddingCount reports how many segments have a vector.
func (s *InMemoryCourseStore) EmbeddingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.embeddings)
}
