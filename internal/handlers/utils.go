package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/akolanti/CourseRAG/internal/adapter"
	"github.com/akolanti/CourseRAG/internal/adapter/utils"
	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "err", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func traceIdFrom(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func validateContext(ctx context.Context) bool {
	if handlerInstance == nil {
		return false
	}
	if ctx.Err() != nil {
		logRH.ForContext(ctx).Warn("context error", "err", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// courseIdParam reads {courseId}. Course ids are positive integers.
func courseIdParam(r *http.Request) (int, error) {
	raw := utils.GetChiURLParam(r, "courseId")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid course id %q", raw)
	}
	return id, nil
}

// getTargetDirectory returns <storageRoot>/<courseId>, creating it if needed.
func getTargetDirectory(courseID int) (string, string) {
	targetDir := filepath.Join(handlerInstance.storageRoot, strconv.Itoa(courseID))
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}
