package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/CourseRAG/internal/api"
	"github.com/akolanti/CourseRAG/internal/data/store"
	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/domain/jobModel"
	"github.com/akolanti/CourseRAG/internal/job"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRagService struct {
	OnGetSegmentsFor func(ctx context.Context, prompt string, courseID int, n int) ([]commonModels.RetrievedSegment, error)
	OnDeactivate     func(ctx context.Context, path string) error
	OnListActive     func(ctx context.Context, courseID int) ([]string, error)
}

func (m *mockRagService) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	return j
}

func (m *mockRagService) GetSegmentsFor(ctx context.Context, prompt string, courseID int, n int) ([]commonModels.RetrievedSegment, error) {
	if m.OnGetSegmentsFor != nil {
		return m.OnGetSegmentsFor(ctx, prompt, courseID, n)
	}
	return []commonModels.RetrievedSegment{}, nil
}

func (m *mockRagService) DeactivateDocument(ctx context.Context, path string) error {
	if m.OnDeactivate != nil {
		return m.OnDeactivate(ctx, path)
	}
	return nil
}

func (m *mockRagService) ListActiveDocuments(ctx context.Context, courseID int) ([]string, error) {
	if m.OnListActive != nil {
		return m.OnListActive(ctx, courseID)
	}
	return nil, nil
}

type testEnv struct {
	router  *chi.Mux
	jobs    *job.Service
	storage string
}

func newTestEnv(t *testing.T, ragService *mockRagService) testEnv {
	t.Helper()
	jobs := job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 5),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store.InitInMemoryJobStore(),
	})
	storage := t.TempDir()
	InitJobHandler(jobs, ragService, storage)

	r := chi.NewRouter()
	r.Get("/status/{id}", GetStatusHandler)
	r.Post("/courses/{courseId}/documents", PostDocumentHandler)
	r.Get("/courses/{courseId}/documents", GetDocumentsHandler)
	r.Post("/courses/{courseId}/segments", PostSegmentsHandler)
	r.Delete("/documents/*", DeleteDocumentHandler)
	return testEnv{router: r, jobs: jobs, storage: storage}
}

func uploadRequest(t *testing.T, url string, filename string, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("document", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPostDocument_QueuesJob(t *testing.T) {
	env := newTestEnv(t, &mockRagService{})
	rec := httptest.NewRecorder()

	env.router.ServeHTTP(rec, uploadRequest(t, "/courses/7/documents", "week 1.txt", "Hello. World."))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp api.InitJobResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Id)
	assert.Equal(t, filepath.Join(env.storage, "7"), filepath.Dir(resp.DocumentPath))
	assert.True(t, strings.HasSuffix(resp.DocumentPath, "-week_1.txt"))

	saved, err := os.ReadFile(resp.DocumentPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello. World.", string(saved))

	queued := <-env.jobs.JobChannel
	assert.Equal(t, resp.Id, queued.Id)
	assert.Equal(t, 7, queued.JobPayload.CourseID)
	assert.Equal(t, resp.DocumentPath, queued.JobPayload.DocumentPath)
}

func TestPostDocument_RejectsUnsupportedExtension(t *testing.T) {
	env := newTestEnv(t, &mockRagService{})
	rec := httptest.NewRecorder()

	env.router.ServeHTTP(rec, uploadRequest(t, "/courses/7/documents", "diagram.png", "not text"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, env.jobs.JobChannel, 0)
	_, err := os.Stat(filepath.Join(env.storage, "7"))
	assert.True(t, os.IsNotExist(err), "nothing should be written for a rejected upload")
}

func TestPostDocument_BadCourseId(t *testing.T) {
	env := newTestEnv(t, &mockRagService{})
	rec := httptest.NewRecorder()

	env.router.ServeHTTP(rec, uploadRequest(t, "/courses/abc/documents", "notes.txt", "x"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStatus(t *testing.T) {
	env := newTestEnv(t, &mockRagService{})
	ctx := context.Background()
	require.NoError(t, env.jobs.JobStore.SaveJob(ctx, jobModel.Job{
		Id:     "job-1",
		Status: jobModel.JobStatusComplete,
		JobPayload: jobModel.JobPayload{
			DocumentPath: "course_documents/7/1-notes.txt",
			CourseID:     7,
			Outcome:      &jobModel.IngestOutcome{Status: "COMPLETE", SegmentIDs: []int64{1}, SegmentsParsed: 1, EmbeddingsStored: 1},
		},
	}))

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/job-1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.JobResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotNil(t, resp.Result.Ingest)
		assert.Equal(t, "COMPLETE", resp.Result.Ingest.Status)
		assert.Equal(t, []int64{1}, resp.Result.Ingest.SegmentIDs)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPostSegments(t *testing.T) {
	var gotPrompt string
	var gotCourse, gotN int
	env := newTestEnv(t, &mockRagService{
		OnGetSegmentsFor: func(ctx context.Context, prompt string, courseID int, n int) ([]commonModels.RetrievedSegment, error) {
			gotPrompt, gotCourse, gotN = prompt, courseID, n
			return []commonModels.RetrievedSegment{{ID: 3, Text: "Hello.", DocumentID: "7/a.txt"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/courses/7/segments", strings.NewReader(`{"prompt":"hi","num_segments":2}`))
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", gotPrompt)
	assert.Equal(t, 7, gotCourse)
	assert.Equal(t, 2, gotN)

	var resp api.SegmentsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Segments, 1)
	assert.Equal(t, int64(3), resp.Segments[0].ID)
}

func TestPostSegments_EmptyPrompt(t *testing.T) {
	env := newTestEnv(t, &mockRagService{})
	rec := httptest.NewRecorder()

	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/7/segments", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDocuments_EmptyCourse(t *testing.T) {
	env := newTestEnv(t, &mockRagService{})
	rec := httptest.NewRecorder()

	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/42/documents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.DocumentsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 42, resp.CourseID)
	assert.Empty(t, resp.Documents)
	assert.NotNil(t, resp.Documents)
}

func TestDeleteDocument(t *testing.T) {
	var gotPath string
	env := newTestEnv(t, &mockRagService{
		OnDeactivate: func(ctx context.Context, path string) error {
			gotPath = path
			if path == "course_documents/7/missing.txt" {
				return commonModels.ErrDocumentNotFound
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/documents/course_documents/7/1-notes.txt", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "course_documents/7/1-notes.txt", gotPath)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/documents/course_documents/7/missing.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
