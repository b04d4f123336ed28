package openaiWhisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/CourseRAG/internal/rag/fileParsing"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTranscriber(t *testing.T, handler http.HandlerFunc) *Transcriber {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTranscriber("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
}

func chunkFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "0_chunk.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func TestTranscribe_ReturnsText(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"  The lecture begins.  "}`))
	})

	text, err := tr.Transcribe(context.Background(), chunkFile(t))

	require.NoError(t, err)
	assert.Equal(t, "The lecture begins.", text)
}

func TestTranscribe_EmptyTextIsNoSpeech(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":""}`))
	})

	_, err := tr.Transcribe(context.Background(), chunkFile(t))

	assert.ErrorIs(t, err, fileParsing.ErrNoSpeech)
}

func TestTranscribe_ServerError(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	})

	_, err := tr.Transcribe(context.Background(), chunkFile(t))

	assert.Error(t, err)
}
