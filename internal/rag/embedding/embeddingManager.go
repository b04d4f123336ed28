package embedding

import (
	"context"
	"fmt"
)

// Embedder maps text to a fixed-dimension vector. Implementations are
// constructed once and injected; no retries are performed.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// ConnectionError is returned at construction when the backend can not be
// reached. Startup aborts on it.
type ConnectionError struct {
	Backend string
	Target  string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("embedding backend %s unreachable at %s: %v", e.Backend, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
