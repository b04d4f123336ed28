package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/CourseRAG/internal/adapter/utils"
	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/middleware"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// Routes registers the HTTP surface. mcpHandler may be nil.
func Routes(mcpHandler http.Handler) http.Handler {
	r := utils.GetRouter()

	r.Router.Get("/health", middleware.GetHandler)
	r.Router.Get("/status/{id}", middleware.GetStatusHandler)
	r.Router.Post("/courses/{courseId}/documents", middleware.PostDocumentHandler)
	r.Router.Get("/courses/{courseId}/documents", middleware.GetDocumentsHandler)
	r.Router.Post("/courses/{courseId}/segments", middleware.PostSegmentsHandler)
	r.Router.Delete("/documents/*", middleware.DeleteDocumentHandler)
	if mcpHandler != nil {
		r.Router.Handle("/mcp", middleware.WrapHandler(mcpHandler))
	}
	return r.Router
}

func CreateServer(listenAddr string, handler http.Handler) {
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

// ShutDownHandler waits for a signal, drains HTTP, stops the workers once
// their current job is done, then releases external services.
func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "err", err)
			}
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Shut down gracefully")
		close(shutdownParams.StopExecution)
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
