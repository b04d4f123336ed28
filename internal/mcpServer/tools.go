package mcpServer

import (
	"context"
	"errors"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SegmentsInput struct {
	CourseID    int    `json:"course_id" jsonschema:"the course whose documents are searched"`
	Prompt      string `json:"prompt" jsonschema:"the student question to find context for"`
	NumSegments int    `json:"num_segments,omitempty" jsonschema:"maximum number of segments to return (default 3)"`
}

type SegmentsOutput struct {
	Segments []SegmentOutput `json:"segments"`
	Count    int             `json:"count"`
}

type SegmentOutput struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	DocumentID string `json:"document_id"`
}

var errEmptyPrompt = errors.New("prompt is required")

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_course_segments",
		Description: "Find the course material segments closest to a prompt, nearest first",
	}, s.handleGetSegments)
}

func (s *Server) handleGetSegments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SegmentsInput,
) (*mcp.CallToolResult, SegmentsOutput, error) {
	if input.Prompt == "" {
		return nil, SegmentsOutput{}, errEmptyPrompt
	}
	n := input.NumSegments
	if n <= 0 {
		n = config.DefaultNumSegments
	}

	segments, err := s.retriever.GetSegmentsFor(ctx, input.Prompt, input.CourseID, n)
	if err != nil {
		s.logger.ForContext(ctx).Error("get_course_segments failed", "courseId", input.CourseID, "err", err)
		return nil, SegmentsOutput{}, err
	}

	output := SegmentsOutput{
		Segments: make([]SegmentOutput, len(segments)),
		Count:    len(segments),
	}
	for i, seg := range segments {
		output.Segments[i] = SegmentOutput{ID: seg.ID, Text: seg.Text, DocumentID: seg.DocumentID}
	}
	return nil, output, nil
}
