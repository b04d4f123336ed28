package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/embedding"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Config struct {
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

type client struct {
	api        openai.Client
	model      string
	dimensions int
	timeout    time.Duration
	logger     *logger_i.Logger
}

// NewOpenAIEmbedder looks the model up once, which doubles as the
// reachability check. Retries are disabled.
func NewOpenAIEmbedder(ctx context.Context, cfg Config, opts ...option.RequestOption) (embedding.Embedder, error) {
	if cfg.Model == "" {
		cfg.Model = config.OpenAIEmbeddingModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.EmbeddingTimeout
	}
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}, opts...)

	c := &client{
		api:        openai.NewClient(opts...),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		timeout:    cfg.Timeout,
		logger:     logger_i.NewLogger("openai_embedding"),
	}

	checkCtx, cancel := context.WithTimeout(ctx, config.EmbeddingConnTimeout)
	defer cancel()
	if _, err := c.api.Models.Get(checkCtx, cfg.Model); err != nil {
		return nil, &embedding.ConnectionError{Backend: config.EmbeddingBackendOpenAI, Target: cfg.Model, Err: err}
	}
	c.logger.Info("OpenAI embedding client created", "model", cfg.Model)
	return c, nil
}

func (c *client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	embedCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.model),
	}
	if c.dimensions > 0 {
		params.Dimensions = openai.Int(int64(c.dimensions))
	}

	resp, err := c.api.Embeddings.New(embedCtx, params)
	if err != nil {
		c.logger.ForContext(ctx).Error("Error getting embedding from OpenAI", "error", err)
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai returned no embeddings")
	}
	return resp.Data[0].Embedding, nil
}
