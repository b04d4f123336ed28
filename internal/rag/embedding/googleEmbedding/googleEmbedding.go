package googleEmbedding

import (
	"context"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/embedding"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"google.golang.org/genai"
)

type Config struct {
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
	// BaseURL overrides the Gemini API endpoint. Empty uses the default.
	BaseURL    string
}

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	timeout   time.Duration
	logger    *logger_i.Logger
}

// NewGoogleEmbedder fetches the model metadata once so a bad key or an
// unreachable API fails at startup.
func NewGoogleEmbedder(ctx context.Context, cfg Config) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")
	if cfg.Model == "" {
		cfg.Model = config.GoogleEmbeddingModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = config.EmbeddingDimensions
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.EmbeddingTimeout
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return nil, &embedding.ConnectionError{Backend: config.EmbeddingBackendGoogle, Target: cfg.Model, Err: err}
	}

	checkCtx, cancel := context.WithTimeout(ctx, config.EmbeddingConnTimeout)
	defer cancel()
	if _, err := c.Models.Get(checkCtx, cfg.Model, nil); err != nil {
		return nil, &embedding.ConnectionError{Backend: config.EmbeddingBackendGoogle, Target: cfg.Model, Err: err}
	}

	logger.Debug("Google Embedding model name: " + cfg.Model)
	logger.Info("Google Embedding client created")
	return &client{
		genAi:     c,
		model:     cfg.Model,
		dimension: int32(cfg.Dimensions),
		timeout:   cfg.Timeout,
		logger:    logger,
	}, nil
}

func (c *client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	embedCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.genAi.Models.EmbedContent(embedCtx, c.model, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             config.GoogleEmbeddingTask,
	})
	if err != nil {
		c.logger.ForContext(ctx).Error("Error getting Embeddings from Google", "error", err.Error())
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errEmptyResponse
	}
	return vectorDB.ToFloat64(result.Embeddings[0].Values), nil
}
