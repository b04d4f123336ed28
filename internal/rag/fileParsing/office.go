package fileParsing

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat"
)

// parseOffice reads .docx, .odt and .rtf through cat and segments the result
// with the plain text rule.
func parseOffice(path string, budget int) ([]string, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract office document: %w", err)
	}
	return segmentLines(strings.Split(newlineReplacer.Replace(text), "\n"), budget), nil
}
