package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds the runtime configuration. Every field defaults to the
// matching constant and can be overridden from the environment (or a .env
// file loaded by main).
type Settings struct {
	IsProd       bool
	ListenAddr   string
	AuthToken    string
	NoAuthBypass bool

	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	QdrantHost    string
	QdrantPort    int
	PostgresDSN   string

	EmbeddingBackend    string
	EmbeddingModel      string
	EmbeddingDimensions int
	EmbeddingTimeout    time.Duration
	OllamaBaseURL       string
	GoogleAPIKey        string
	OpenAIAPIKey        string
	StubVector          []float64

	FileStoragePath string
	SegmentBudget   int
	PDFOverlap      int
	AudioWindow     time.Duration
	TranscribeAudio bool
}

func Load() Settings {
	s := Settings{
		IsProd:       getBool("IS_PROD", false),
		ListenAddr:   getString("LISTEN_ADDR", ServerListenAddr),
		AuthToken:    getString("AUTH_TOKEN", ""),
		NoAuthBypass: getBool("NO_AUTH_BYPASS", false),

		StoreBackend:  strings.ToLower(getString("STORE_BACKEND", StoreBackendRedis)),
		RedisAddr:     getString("REDIS_ADDR", RedisAddr),
		RedisPassword: getString("REDIS_PASSWORD", ""),
		QdrantHost:    getString("QDRANT_HOST", QdrantHost),
		QdrantPort:    getInt("QDRANT_PORT", QdrantGrpcPort),
		PostgresDSN:   getString("POSTGRES_DSN", PostgresDSN),

		EmbeddingBackend:    strings.ToLower(getString("EMBEDDING_BACKEND", EmbeddingBackendOllama)),
		EmbeddingDimensions: getInt("EMBEDDING_DIMENSIONS", EmbeddingDimensions),
		EmbeddingTimeout:    getDuration("EMBEDDING_TIMEOUT", EmbeddingTimeout),
		OllamaBaseURL:       getString("OLLAMA_BASE_URL", OllamaBaseURL),
		GoogleAPIKey:        getString("GOOGLE_API_KEY", ""),
		OpenAIAPIKey:        getString("OPENAI_API_KEY", ""),
		StubVector:          getFloats("STUB_EMBEDDING", nil),

		FileStoragePath: getString("FILE_STORAGE_PATH", FileStoragePath),
		SegmentBudget:   getInt("SEGMENT_BUDGET", DefaultSegmentBudget),
		PDFOverlap:      getInt("PDF_OVERLAP", DefaultPDFOverlap),
		AudioWindow:     time.Duration(getInt("AUDIO_CHUNK_SECONDS", AudioChunkWindow)) * time.Second,
		TranscribeAudio: getBool("TRANSCRIBE_AUDIO", true),
	}
	s.EmbeddingModel = getString("EMBEDDING_MODEL", defaultModelFor(s.EmbeddingBackend))
	if s.EmbeddingBackend == EmbeddingBackendStub {
		// the stub vector decides the size unless set explicitly
		s.EmbeddingDimensions = getInt("EMBEDDING_DIMENSIONS", StubEmbeddingDimension)
		if len(s.StubVector) > 0 {
			s.EmbeddingDimensions = len(s.StubVector)
		}
	}
	return s
}

func defaultModelFor(backend string) string {
	switch backend {
	case EmbeddingBackendGoogle:
		return GoogleEmbeddingModel
	case EmbeddingBackendOpenAI:
		return OpenAIEmbeddingModel
	case EmbeddingBackendStub:
		return "stub"
	default:
		return OllamaEmbeddingModel
	}
}

func getString(key string, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getFloats parses a comma separated list such as "0.1,-0.2,0.3".
func getFloats(key string, fallback []float64) []float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fallback
		}
		out = append(out, f)
	}
	return out
}
