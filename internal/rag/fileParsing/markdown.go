package fileParsing

import (
	"io"
	"strings"
)

var markdownReplacer = strings.NewReplacer(`\r\n`, "\n", "\r\n", "\n", `\'`, "'")

// parseMarkdown splits on the "#" heading marker, so headings lose their
// marker but keep their title text.
func parseMarkdown(r io.Reader, budget int) ([]string, error) {
	text, err := readText(r)
	if err != nil {
		return nil, err
	}
	text = markdownReplacer.Replace(text)

	var sections []string
	for _, section := range strings.Split(text, "#") {
		if section == "" {
			continue
		}
		if runeLen(section) > budget {
			sections = append(sections, hardChunk(section, budget)...)
			continue
		}
		sections = append(sections, section)
	}
	return combineSections(sections, budget), nil
}
