package fileParsing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
)

// Options tune segmentation. Zero values fall back to the defaults.
type Options struct {
	SegmentBudget int // characters per segment
	PDFOverlap    int // sentences carried from the previous pdf segment
	AudioWindow   time.Duration
	MinSilence    time.Duration
	SilenceThresh float64 // dBFS
	KeepSilence   time.Duration
}

func DefaultOptions() Options {
	return Options{
		SegmentBudget: config.DefaultSegmentBudget,
		PDFOverlap:    config.DefaultPDFOverlap,
		AudioWindow:   config.AudioChunkWindow * time.Second,
		MinSilence:    config.AudioMinSilence,
		SilenceThresh: config.AudioSilenceThresh,
		KeepSilence:   config.AudioKeepSilence,
	}
}

type Parser struct {
	opts        Options
	transcriber Transcriber
	logger      *logger_i.Logger
}

// NewParser builds a parser. transcriber may be nil, in which case audio files
// fail with ErrNoTranscriber.
func NewParser(opts Options, transcriber Transcriber) *Parser {
	defaults := DefaultOptions()
	if opts.SegmentBudget <= 0 {
		opts.SegmentBudget = defaults.SegmentBudget
	}
	if opts.PDFOverlap < 0 {
		opts.PDFOverlap = defaults.PDFOverlap
	}
	if opts.MinSilence <= 0 {
		opts.MinSilence = defaults.MinSilence
	}
	if opts.SilenceThresh == 0 {
		opts.SilenceThresh = defaults.SilenceThresh
	}
	if opts.KeepSilence < 0 {
		opts.KeepSilence = defaults.KeepSilence
	}
	return &Parser{
		opts:        opts,
		transcriber: transcriber,
		logger:      logger_i.NewLogger("fileParsing"),
	}
}

// ParseFile parses with the default options and no transcriber.
func ParseFile(ctx context.Context, path string) ([]string, error) {
	return NewParser(DefaultOptions(), nil).ParseFile(ctx, path)
}

// ParseFile reads the file at path and returns its ordered, non-blank text
// segments. Any failure is a *FileParsingError or *InvalidFileExtensionError,
// both of which match ErrFileParsing.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("file_parsing", time.Since(start))
	}()

	raw, err := p.dispatch(ctx, path, format)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, &FileParsingError{Path: path, Format: format, Err: err}
	}

	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if !isBlank(s) {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return nil, &FileParsingError{Path: path, Format: format, Err: ErrNoExtractableText}
	}

	p.logger.ForContext(ctx).Debug("parsed file", "path", path, "format", format.String(), "segments", len(segments))
	return segments, nil
}

func (p *Parser) dispatch(ctx context.Context, path string, format Format) ([]string, error) {
	switch format {
	case FormatDOCX, FormatODT, FormatRTF:
		return parseOffice(path, p.opts.SegmentBudget)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case FormatTxt:
		return parseTxt(f, p.opts.SegmentBudget)
	case FormatMarkdown:
		return parseMarkdown(f, p.opts.SegmentBudget)
	case FormatPDF:
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return p.parsePDF(f, info.Size())
	case FormatWAV, FormatMP3:
		return p.parseAudio(ctx, f, format)
	default:
		return nil, fmt.Errorf("no parser for format %s", format)
	}
}
