package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("EMBEDDING_BACKEND", "")
	t.Setenv("SEGMENT_BUDGET", "")
	t.Setenv("EMBEDDING_DIMENSIONS", "")

	s := Load()

	assert.Equal(t, StoreBackendRedis, s.StoreBackend)
	assert.Equal(t, EmbeddingBackendOllama, s.EmbeddingBackend)
	assert.Equal(t, OllamaEmbeddingModel, s.EmbeddingModel)
	assert.Equal(t, DefaultSegmentBudget, s.SegmentBudget)
	assert.Equal(t, DefaultPDFOverlap, s.PDFOverlap)
	assert.Equal(t, EmbeddingDimensions, s.EmbeddingDimensions)
	assert.Equal(t, time.Duration(0), s.AudioWindow)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("EMBEDDING_BACKEND", "stub")
	t.Setenv("STUB_EMBEDDING", "0.1, -0.2,0.3,0.4")
	t.Setenv("SEGMENT_BUDGET", "500")
	t.Setenv("EMBEDDING_TIMEOUT", "2s")
	t.Setenv("AUDIO_CHUNK_SECONDS", "30")

	s := Load()

	assert.Equal(t, StoreBackendPostgres, s.StoreBackend)
	assert.Equal(t, EmbeddingBackendStub, s.EmbeddingBackend)
	assert.Equal(t, []float64{0.1, -0.2, 0.3, 0.4}, s.StubVector)
	assert.Equal(t, 4, s.EmbeddingDimensions)
	assert.Equal(t, 500, s.SegmentBudget)
	assert.Equal(t, 2*time.Second, s.EmbeddingTimeout)
	assert.Equal(t, 30*time.Second, s.AudioWindow)
}

func TestGetFloats_Malformed(t *testing.T) {
	t.Setenv("STUB_EMBEDDING", "0.1,abc")
	assert.Nil(t, getFloats("STUB_EMBEDDING", nil))
}

func TestLoad_StubWithoutVectorUsesStubDimension(t *testing.T) {
	t.Setenv("EMBEDDING_BACKEND", "stub")
	t.Setenv("STUB_EMBEDDING", "")
	t.Setenv("EMBEDDING_DIMENSIONS", "")

	s := Load()

	assert.Equal(t, StubEmbeddingDimension, s.EmbeddingDimensions)
}
