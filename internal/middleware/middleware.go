package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/CourseRAG/internal/handlers"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var PostDocumentHandler = Wrap(handlers.PostDocumentHandler)
var GetDocumentsHandler = Wrap(handlers.GetDocumentsHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)
var PostSegmentsHandler = Wrap(handlers.PostSegmentsHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc()
	}
}

// WrapHandler applies the same chain to a mounted http.Handler such as /mcp.
func WrapHandler(next http.Handler) http.Handler {
	return Wrap(next.ServeHTTP)
}

// routePattern keeps the metric label bounded: /status/{id}, not every id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	if handleBadRequest(re) {
		return re
	}
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	re = authenticate(re)
	if handleBadRequest(re) {
		return re
	}
	re = rateLimiter(re)
	handleBadRequest(re)
	return re
}
