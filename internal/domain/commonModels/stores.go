package commonModels

import (
	"context"
	"errors"
)

var (
	ErrDocumentExists   = errors.New("document already exists")
	ErrDocumentNotFound = errors.New("document not found")
)

type DocumentStore interface {
	AddDocument(ctx context.Context, path string, courseID int) (DocumentRef, error)
	GetDocument(ctx context.Context, path string) (DocumentRef, error)
	SetInactive(ctx context.Context, path string) error
	ListActive(ctx context.Context) ([]string, error)
	ListActiveByCourse(ctx context.Context, courseID int) ([]string, error)
}

type SegmentStore interface {
	// StoreSegment persists text for an existing document and returns the
	// generated segment id. Ids grow with insertion order.
	StoreSegment(ctx context.Context, text string, documentPath string) (int64, error)
}
