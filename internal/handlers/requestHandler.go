package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/CourseRAG/internal/adapter"
	"github.com/akolanti/CourseRAG/internal/adapter/utils"
	"github.com/akolanti/CourseRAG/internal/api"
	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/rag/fileParsing"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

var logRH *logger_i.Logger

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// GetStatusHandler reports an ingestion job, including the pipeline outcome
// once a worker has finished it.
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Service unavailable")
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceIdFrom(r.Context()))

	logRH.ForContext(r.Context()).Debug("Get Status Request", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostDocumentHandler receives a multipart "document" upload for a course.
// The extension is checked before anything is written, the file is saved as
// <storage>/<courseId>/<unix nanos>-<name> and an ingestion job is queued.
func PostDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Service unavailable")
		return
	}
	log := logRH.ForContext(r.Context())

	courseID, err := courseIdParam(r)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	name := utils.SecureFilename(fileMetadata.Filename)
	if _, err := fileParsing.DetectFormat(name); err != nil {
		log.Warn("Rejected upload", "filename", fileMetadata.Filename, "err", err)
		WriteErrorResponse(w, http.StatusBadRequest, name, err.Error())
		return
	}

	targetDir, errString := getTargetDirectory(courseID)
	if errString != "" {
		log.Error("Couldn't get target directory", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, name, errString)
		return
	}

	savedPath := filepath.Join(targetDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), name))
	if err := saveUpload(fileReader, savedPath); err != nil {
		log.Error("Could not store upload", "path", savedPath, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Storage error")
		return
	}

	newJob := newIngestJob(r.Context(), name, savedPath, courseID)
	if err := CreateIngestJob(r.Context(), newJob); err != nil {
		log.Error("Could not queue ingestion", "err", err)
		_ = os.Remove(savedPath)
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Could not queue ingestion")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, savedPath))
}

func saveUpload(src io.Reader, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}

// GetDocumentsHandler lists the active documents of a course.
func GetDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Service unavailable")
		return
	}
	courseID, err := courseIdParam(r)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
		return
	}

	paths, err := handlerInstance.rag.ListActiveDocuments(r.Context(), courseID)
	if err != nil {
		logRH.ForContext(r.Context()).Error("Could not list documents", "courseId", courseID, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not list documents")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentsResponse(courseID, paths))
}

// DeleteDocumentHandler soft deletes the document whose path follows
// /documents/. Segments and embeddings stay stored.
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Service unavailable")
		return
	}
	path := utils.GetChiURLParam(r, "*")
	if path == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document path is required")
		return
	}

	err := handlerInstance.rag.DeactivateDocument(r.Context(), path)
	switch {
	case errors.Is(err, commonModels.ErrDocumentNotFound):
		WriteErrorResponse(w, http.StatusNotFound, path, "Document not found")
	case err != nil:
		logRH.ForContext(r.Context()).Error("Could not deactivate document", "path", path, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, path, "Could not deactivate document")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// PostSegmentsHandler returns the segments nearest to a prompt.
func PostSegmentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Service unavailable")
		return
	}
	courseID, err := courseIdParam(r)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
		return
	}

	var requestData api.SegmentsRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Prompt == "" {
		logRH.ForContext(r.Context()).Warn("Bad segments request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "prompt is required")
		return
	}

	segments, err := handlerInstance.rag.GetSegmentsFor(r.Context(), requestData.Prompt, courseID, requestData.NumSegments)
	if err != nil {
		logRH.ForContext(r.Context()).Error("Retrieval failed", "courseId", courseID, "err", err)
		WriteErrorResponse(w, http.StatusBadGateway, "", "Retrieval failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSegmentsResponse(courseID, segments))
}
