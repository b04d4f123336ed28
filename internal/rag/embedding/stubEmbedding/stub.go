package stubEmbedding

import (
	"context"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/rag/embedding"
)

// client returns the same vector for every text. Used in tests and for
// running the service without a model.
type client struct {
	vector []float64
}

func NewStubEmbedder(vector []float64) embedding.Embedder {
	if len(vector) == 0 {
		vector = make([]float64, config.StubEmbeddingDimension)
		for i := range vector {
			vector[i] = 1
		}
	}
	return &client{vector: vector}
}

func (c *client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(c.vector))
	copy(out, c.vector)
	return out, nil
}
