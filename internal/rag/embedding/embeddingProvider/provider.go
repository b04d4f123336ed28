package embeddingProvider

import (
	"context"
	"fmt"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/rag/embedding"
	"github.com/akolanti/CourseRAG/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/CourseRAG/internal/rag/embedding/ollamaEmbedding"
	"github.com/akolanti/CourseRAG/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/CourseRAG/internal/rag/embedding/stubEmbedding"
)

// NewEmbedder builds the backend named by settings.EmbeddingBackend.
func NewEmbedder(ctx context.Context, s config.Settings) (embedding.Embedder, error) {
	switch s.EmbeddingBackend {
	case config.EmbeddingBackendOllama:
		return ollamaEmbedding.NewOllamaEmbedder(ctx, ollamaEmbedding.Config{
			BaseURL: s.OllamaBaseURL,
			Model:   s.EmbeddingModel,
			Timeout: s.EmbeddingTimeout,
		})
	case config.EmbeddingBackendGoogle:
		return googleEmbedding.NewGoogleEmbedder(ctx, googleEmbedding.Config{
			APIKey:     s.GoogleAPIKey,
			Model:      s.EmbeddingModel,
			Dimensions: s.EmbeddingDimensions,
			Timeout:    s.EmbeddingTimeout,
		})
	case config.EmbeddingBackendOpenAI:
		return openaiEmbedding.NewOpenAIEmbedder(ctx, openaiEmbedding.Config{
			APIKey:     s.OpenAIAPIKey,
			Model:      s.EmbeddingModel,
			Dimensions: s.EmbeddingDimensions,
			Timeout:    s.EmbeddingTimeout,
		})
	case config.EmbeddingBackendStub:
		return stubEmbedding.NewStubEmbedder(s.StubVector), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", s.EmbeddingBackend)
	}
}
