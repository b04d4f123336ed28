package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/data/pgStore"
	"github.com/akolanti/CourseRAG/internal/data/redisStore"
	"github.com/akolanti/CourseRAG/internal/data/store"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	jobmodel "github.com/akolanti/CourseRAG/internal/domain/jobModel"
	"github.com/akolanti/CourseRAG/internal/handlers"
	"github.com/akolanti/CourseRAG/internal/job"
	"github.com/akolanti/CourseRAG/internal/mcpServer"
	"github.com/akolanti/CourseRAG/internal/middleware"
	"github.com/akolanti/CourseRAG/internal/rag"
	"github.com/akolanti/CourseRAG/internal/rag/embedding/embeddingProvider"
	"github.com/akolanti/CourseRAG/internal/rag/fileParsing"
	"github.com/akolanti/CourseRAG/internal/rag/ingest"
	"github.com/akolanti/CourseRAG/internal/rag/transcription/openaiWhisper"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/CourseRAG/internal/server"
	"github.com/akolanti/CourseRAG/internal/worker"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/joho/godotenv"
)

var (
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

type courseStores struct {
	documents commonModels.DocumentStore
	segments  commonModels.SegmentStore
	vectors   vectorDB.VectorStore
}

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()
	settings := config.Load()

	logger_i.Init(settings.IsProd)
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", settings.ListenAddr, "server listen address")
	flag.Parse()

	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	redisConn := redisStore.Connection{Addr: settings.RedisAddr, Password: settings.RedisPassword}

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
	}
	if jobStore := store.GetRedisJobStore(serviceContext, redisConn); jobStore != nil {
		serviceConfig.JobStore = jobStore
	} else {
		logger.Error("Redis job store is offline, using memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	jobService := job.InitJobService(serviceConfig)

	stores, ok := openCourseStores(serviceContext, settings, redisConn, logger)
	if !ok {
		return
	}

	embedder, err := embeddingProvider.NewEmbedder(serviceContext, settings)
	if err != nil {
		logger.Error("Embedding backend is unreachable. Shutting down.", "backend", settings.EmbeddingBackend, "error", err)
		return
	}

	var transcriber fileParsing.Transcriber
	if settings.TranscribeAudio && settings.OpenAIAPIKey != "" {
		transcriber = openaiWhisper.NewTranscriber(settings.OpenAIAPIKey)
	} else {
		logger.Info("Audio transcription disabled")
	}

	parser := fileParsing.NewParser(fileParsing.Options{
		SegmentBudget: settings.SegmentBudget,
		PDFOverlap:    settings.PDFOverlap,
		AudioWindow:   settings.AudioWindow,
	}, transcriber)

	pipeline := ingest.NewPipeline(ingest.PipelineConfig{
		Parser:     parser,
		Embedder:   embedder,
		Documents:  stores.documents,
		Segments:   stores.segments,
		Vectors:    stores.vectors,
		Dimensions: settings.EmbeddingDimensions,
	})
	retriever := rag.NewRetriever(embedder, stores.vectors, settings.EmbeddingDimensions)
	ragService := rag.NewService(pipeline, retriever, stores.documents)

	handlers.InitJobHandler(jobService, ragService, settings.FileStoragePath)
	middleware.Configure(settings.AuthToken, settings.NoAuthBypass)
	if settings.NoAuthBypass {
		logger.Warn("Authentication is bypassed")
	}

	//init worker pool
	worker.InitServices(jobService, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	var mcpHandler http.Handler = mcpServer.NewServer(ragService).Handler()

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, server.Routes(mcpHandler))

	<-stopExecution
	logger.Info("Server stopped")
}

// openCourseStores picks the document, segment and vector stores for the
// configured backend. Redis falls back to memory when offline, the other
// failures stop startup.
func openCourseStores(ctx context.Context, s config.Settings, conn redisStore.Connection, logger *logger_i.Logger) (courseStores, bool) {
	switch s.StoreBackend {
	case config.StoreBackendPostgres:
		pg, err := pgStore.Open(ctx, s.PostgresDSN, s.EmbeddingDimensions)
		if err != nil {
			logger.Error("Postgres is unreachable. Shutting down.", "error", err)
			return courseStores{}, false
		}
		go func() {
			<-ctx.Done()
			pg.Close()
		}()
		return courseStores{documents: pg, segments: pg, vectors: pg}, true

	case config.StoreBackendRedis:
		documents := store.GetRedisDocumentStore(ctx, conn)
		segments := store.GetRedisSegmentStore(ctx, conn)
		if documents == nil || segments == nil {
			if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
				logger.Error("Redis course store is offline. Shutting down.")
				return courseStores{}, false
			}
			logger.Error("Redis course store is offline, using memory")
			return memoryStores(), true
		}
		vectors, err := qdrantDB.NewQdrantStore(ctx, qdrantDB.Config{
			Host:       s.QdrantHost,
			Port:       s.QdrantPort,
			Dimensions: s.EmbeddingDimensions,
		}, documents)
		if err != nil {
			logger.Error("Qdrant is unreachable. Shutting down.", "error", err)
			return courseStores{}, false
		}
		return courseStores{documents: documents, segments: segments, vectors: vectors}, true

	default:
		return memoryStores(), true
	}
}

func memoryStores() courseStores {
	mem := store.InitInMemoryCourseStore()
	return courseStores{documents: mem, segments: mem, vectors: mem}
}
