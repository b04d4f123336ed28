package fileParsing

import (
	"path/filepath"
	"strings"
)

// Format is the closed set of parseable document kinds.
type Format int

const (
	FormatTxt Format = iota + 1
	FormatMarkdown
	FormatPDF
	FormatWAV
	FormatMP3
	FormatDOCX
	FormatODT
	FormatRTF
)

// keys are matched case-sensitively: "notes.TXT" is rejected.
var formatsBySuffix = map[string]Format{
	"txt":  FormatTxt,
	"md":   FormatMarkdown,
	"pdf":  FormatPDF,
	"wav":  FormatWAV,
	"mp3":  FormatMP3,
	"docx": FormatDOCX,
	"odt":  FormatODT,
	"rtf":  FormatRTF,
}

func (f Format) String() string {
	for suffix, format := range formatsBySuffix {
		if format == f {
			return suffix
		}
	}
	return "unknown"
}

func (f Format) IsAudio() bool {
	return f == FormatWAV || f == FormatMP3
}

// Suffix is the text after the final "." of the file name, "" when there is none.
func Suffix(path string) string {
	return strings.TrimPrefix(filepath.Ext(filepath.Base(path)), ".")
}

func DetectFormat(path string) (Format, error) {
	suffix := Suffix(path)
	format, ok := formatsBySuffix[suffix]
	if !ok {
		return 0, &InvalidFileExtensionError{Extension: suffix}
	}
	return format, nil
}

// SupportedSuffixes lists every accepted extension, for error messages.
func SupportedSuffixes() []string {
	return []string{"txt", "md", "pdf", "wav", "mp3", "docx", "odt", "rtf"}
}
