package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/CourseRAG/internal/adapter/utils"
	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/domain/jobModel"
	"github.com/akolanti/CourseRAG/internal/job"
	"github.com/akolanti/CourseRAG/internal/rag"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

var (
	handlerInstance *JobHandler
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service     *job.Service
	rag         rag.Service
	storageRoot string
}

// InitJobHandler wires the services the HTTP handlers call. Uploads are saved
// under storageRoot.
func InitJobHandler(jobService *job.Service, ragService rag.Service, storageRoot string) {
	once.Do(func() {
		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
	})
	handlerInstance = &JobHandler{service: jobService, rag: ragService, storageRoot: storageRoot}
	logJH.Info("Starting job handler", "storageRoot", storageRoot)
}

type newJobData struct {
	id           string
	traceId      string
	documentName string
	documentPath string
	courseID     int
}

// CreateIngestJob queues the saved upload for the worker pool.
func CreateIngestJob(ctx context.Context, newJob newJobData) error {
	logJH.ForContext(ctx).Info("Creating ingestion job", "jobId", newJob.id, "path", newJob.documentPath)

	_job := jobModel.Job{
		Id:          newJob.id,
		TraceId:     newJob.traceId,
		CreatedTime: time.Now(),
		JobPayload: jobModel.JobPayload{
			FileName:     newJob.documentName,
			DocumentPath: newJob.documentPath,
			CourseID:     newJob.courseID,
		},
	}
	return handlerInstance.service.Enqueue(ctx, _job)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.Status(ctxC, id)
	}
	return result, false
}

func newIngestJob(ctx context.Context, fileName string, path string, courseID int) newJobData {
	return newJobData{
		id:           utils.GetNewUUID(),
		traceId:      traceIdFrom(ctx),
		documentName: fileName,
		documentPath: path,
		courseID:     courseID,
	}
}
