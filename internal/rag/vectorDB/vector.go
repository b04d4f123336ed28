package vectorDB

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
)

type VectorStore interface {
	// StoreEmbedding persists the vector for a stored segment (1:1).
	StoreEmbedding(ctx context.Context, segment commonModels.Segment, vector []float64) error

	// Nearest returns up to k segments of active documents in courseID,
	// ordered by ascending L2 distance to query, ties by segment id.
	Nearest(ctx context.Context, courseID int, query []float64, k int) ([]commonModels.NearestMatch, error)
}

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// CheckDimensions fails when vector does not have dims entries. dims <= 0
// skips the check.
func CheckDimensions(vector []float64, dims int) error {
	if dims > 0 && len(vector) != dims {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), dims)
	}
	return nil
}

// L2Distance is the euclidean distance. Both vectors must have the same length.
func L2Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// SortMatches orders by distance, then segment id, and truncates to k.
func SortMatches(matches []commonModels.NearestMatch, k int) []commonModels.NearestMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].SegmentID < matches[j].SegmentID
	})
	if k >= 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

func ToFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

func ToFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
