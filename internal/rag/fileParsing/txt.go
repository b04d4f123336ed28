package fileParsing

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("content is not valid UTF-8 text")

// newlines may arrive escaped (a literal backslash-n) from exported text.
var newlineReplacer = strings.NewReplacer(`\r\n`, "\n", `\n`, "\n", "\r\n", "\n")

func readText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errInvalidUTF8
	}
	return string(data), nil
}

func parseTxt(r io.Reader, budget int) ([]string, error) {
	text, err := readText(r)
	if err != nil {
		return nil, err
	}
	return segmentLines(strings.Split(newlineReplacer.Replace(text), "\n"), budget), nil
}
