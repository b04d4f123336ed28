package openaiWhisper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/fileParsing"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Transcriber sends audio chunks to the OpenAI transcription endpoint.
type Transcriber struct {
	client openai.Client
	model  string
	locale string
	logger *logger_i.Logger
}

func NewTranscriber(apiKey string, opts ...option.RequestOption) *Transcriber {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &Transcriber{
		client: openai.NewClient(opts...),
		model:  config.TranscriptionModel,
		locale: config.TranscriptionLocale,
		logger: logger_i.NewLogger("openaiWhisper"),
	}
}

func (t *Transcriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	start := time.Now()
	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     f,
		Model:    openai.AudioModel(t.model),
		Language: openai.String(t.locale),
	})
	metrics.CaptureExecutionMetrics("transcription", time.Since(start))
	if err != nil {
		t.logger.ForContext(ctx).Error("Transcription request failed", "file", wavPath, "error", err)
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fileParsing.ErrNoSpeech
	}
	return text, nil
}
