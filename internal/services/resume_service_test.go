package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundText(t *testing.T) {
	assert.Equal(t, "abc", BoundText("abc", 8000))
	assert.Equal(t, "ab", BoundText("abcdef", 2))
	assert.Equal(t, "abcdef", BoundText("abcdef", 6))
	assert.Equal(t, "abcdef", BoundText("abcdef", 0))

	long := strings.Repeat("x", 9000)
	assert.Len(t, BoundText(long, 8000), 8000)
}

func TestExtractTextMissingFile(t *testing.T) {
	svc := NewResumeService()

	_, err := svc.ExtractText(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	svc := NewResumeService()

	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o644))

	_, err := svc.ExtractText(path)
	assert.Error(t, err)
}
