package mcpServer

import (
	"context"
	"net/http"

	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

// SegmentRetriever is the slice of rag.Service the tools need.
type SegmentRetriever interface {
	GetSegmentsFor(ctx context.Context, prompt string, courseID int, numSegments int) ([]commonModels.RetrievedSegment, error)
}

// Server exposes course retrieval to LLM agents.
type Server struct {
	retriever SegmentRetriever
	server    *mcp.Server
	logger    *logger_i.Logger
}

func NewServer(retriever SegmentRetriever) *Server {
	s := &Server{
		retriever: retriever,
		server:    mcp.NewServer(&mcp.Implementation{Name: "course-rag", Version: Version}, nil),
		logger:    logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s
}

// Handler serves the MCP streamable HTTP transport, mounted at /mcp.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
