package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	cases := map[string]string{
		"notes.txt":              "notes.txt",
		"../../etc/passwd":       "passwd",
		"week 1 slides.pdf":      "week_1_slides.pdf",
		`C:\Users\me\lecture.md`: "lecture.md",
		".hidden.txt":            "hidden.txt",
		"résumé.docx":            "rsum.docx",
	}
	for in, want := range cases {
		assert.Equal(t, want, SecureFilename(in), in)
	}
}

func TestGetNewUUID_Unique(t *testing.T) {
	assert.NotEqual(t, GetNewUUID(), GetNewUUID())
}
