package fileParsing

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/dslipak/pdf"
)

const pageExtractTimeout = 10 * time.Second

func (p *Parser) parsePDF(r io.ReaderAt, size int64) (segments []string, err error) {
	// the pdf package panics on some malformed object graphs
	defer func() {
		if rec := recover(); rec != nil {
			segments = nil
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := reader.NumPage()
	p.logger.Debug("extractPDF", "number of pages", numPages)

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			p.logger.Debug("extractPDF", "null page", i)
			continue
		}
		content, err := p.protectExtract(page)
		if err != nil {
			// a single unreadable page does not sink the document
			p.logger.Warn("Error parsing page content", "page", i, "error", err)
			continue
		}
		if content != "" {
			pages = append(pages, content)
		}
	}

	text := strings.Join(pages, "\n")
	text = strings.ReplaceAll(text, "  ", " ")
	text = strings.TrimRightFunc(text, unicode.IsSpace)

	sentences := splitSentences(text, p.opts.SegmentBudget)
	return combineSentences(sentences, p.opts.SegmentBudget, p.opts.PDFOverlap), nil
}

func (p *Parser) protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resChan <- result{"", fmt.Errorf("page extraction panic: %v", rec)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
