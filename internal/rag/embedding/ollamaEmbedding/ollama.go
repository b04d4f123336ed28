package ollamaEmbedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/customHttpClient"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/embedding"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

var _ embedding.Embedder = (*client)(nil)

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type client struct {
	http    *http.Client
	baseURL string
	model   string
	timeout time.Duration
	logger  *logger_i.Logger
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewOllamaEmbedder checks /api/tags before returning, so an unreachable
// server surfaces as *embedding.ConnectionError at startup.
func NewOllamaEmbedder(ctx context.Context, cfg Config) (embedding.Embedder, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.OllamaBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = config.OllamaEmbeddingModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.EmbeddingTimeout
	}

	c := &client{
		http:    customHttpClient.NewPooledClient(cfg.Timeout),
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger_i.NewLogger("ollama_embedding"),
	}
	if err := c.ping(ctx); err != nil {
		return nil, &embedding.ConnectionError{Backend: config.EmbeddingBackendOllama, Target: cfg.BaseURL, Err: err}
	}
	c.logger.Info("Ollama embedding client created", "model", cfg.Model)
	return c, nil
}

func (c *client) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, config.EmbeddingConnTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pingCtx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func (c *client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	embedCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(embedRequest{Model: c.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(embedCtx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ForContext(ctx).Error("Error getting embedding from Ollama", "error", err)
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(msg))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, errors.New("ollama returned an empty embedding")
	}
	return out.Embedding, nil
}
