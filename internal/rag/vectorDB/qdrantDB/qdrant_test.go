package qdrantDB

import (
	"context"
	"testing"

	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPoint(t *testing.T) {
	point := toPoint(commonModels.Segment{ID: 12, DocumentPath: "3/notes.txt", CourseID: 3, Text: "hello"}, []float64{0.5, 1})

	assert.Equal(t, uint64(12), point.GetId().GetNum())
	assert.Equal(t, "hello", point.GetPayload()[payloadText].GetStringValue())
	assert.Equal(t, "3/notes.txt", point.GetPayload()[payloadDocument].GetStringValue())
	assert.Equal(t, int64(3), point.GetPayload()[payloadCourse].GetIntegerValue())
}

func TestCourseFilter(t *testing.T) {
	filter := courseFilter(3, []string{"3/a.txt", "3/b.txt"})

	require.Len(t, filter.GetMust(), 2)
	course := filter.GetMust()[0].GetField()
	assert.Equal(t, payloadCourse, course.GetKey())
	assert.Equal(t, int64(3), course.GetMatch().GetInteger())
	docs := filter.GetMust()[1].GetField()
	assert.Equal(t, payloadDocument, docs.GetKey())
	assert.Equal(t, []string{"3/a.txt", "3/b.txt"}, docs.GetMatch().GetKeywords().GetStrings())
}

func TestToMatches(t *testing.T) {
	hits := []*qdrant.ScoredPoint{
		{Id: qdrant.NewIDNum(2), Score: 1.5, Payload: qdrant.NewValueMap(map[string]any{payloadText: "b", payloadDocument: "1/x"})},
		{Id: qdrant.NewIDNum(1), Score: 0.5, Payload: qdrant.NewValueMap(map[string]any{payloadText: "a", payloadDocument: "1/x"})},
	}

	matches := toMatches(hits)

	require.Len(t, matches, 2)
	assert.Equal(t, commonModels.NearestMatch{SegmentID: 2, Text: "b", DocumentID: "1/x", Distance: 1.5}, matches[0])
}

type noDocuments struct{}

func (noDocuments) ListActiveByCourse(ctx context.Context, courseID int) ([]string, error) {
	return nil, nil
}

func TestNearest_NoActiveDocumentsSkipsQuery(t *testing.T) {
	// QObj is nil, so reaching the client would panic
	db := &ClientHolder{documents: noDocuments{}, logger: newTestLogger()}

	matches, err := db.Nearest(context.Background(), 42, []float64{1, 2}, 3)

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func newTestLogger() *logger_i.Logger {
	return logger_i.NewLogger("Qdrant test")
}
