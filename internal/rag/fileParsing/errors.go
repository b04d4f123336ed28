package fileParsing

import (
	"errors"
	"fmt"
)

// ErrFileParsing matches every parsing failure, unknown extensions included:
// errors.Is(err, ErrFileParsing).
var ErrFileParsing = errors.New("file cannot be parsed")

var (
	ErrNoExtractableText = errors.New("no text could be extracted")
	ErrNoTranscriber     = errors.New("no speech transcriber configured")
)

// FileParsingError reports bytes that are unreadable or corrupt for the
// detected format.
type FileParsingError struct {
	Path   string
	Format Format
	Err    error
}

func (e *FileParsingError) Error() string {
	return fmt.Sprintf("cannot parse %s file %q: %v", e.Format, e.Path, e.Err)
}

func (e *FileParsingError) Unwrap() error { return e.Err }

func (e *FileParsingError) Is(target error) bool { return target == ErrFileParsing }

// InvalidFileExtensionError is the Format Detector rejection. It is user
// correctable and is a FileParsingError kind (errors.Is ErrFileParsing).
type InvalidFileExtensionError struct {
	Extension string
}

func (e *InvalidFileExtensionError) Error() string {
	return fmt.Sprintf("Cannot interpret file with extension %q", e.Extension)
}

func (e *InvalidFileExtensionError) Is(target error) bool { return target == ErrFileParsing }

// As lets callers that only handle *FileParsingError catch extension
// rejections too.
func (e *InvalidFileExtensionError) As(target any) bool {
	if t, ok := target.(**FileParsingError); ok {
		*t = &FileParsingError{Path: "", Err: e}
		return true
	}
	return false
}
