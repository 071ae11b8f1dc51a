package services

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// ResumeService extracts plain text from uploaded resume PDFs.
type ResumeService struct{}

func NewResumeService() *ResumeService {
	return &ResumeService{}
}

// ExtractText reads the PDF at path and returns its plain text.
func (s *ResumeService) ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("resume file not accessible: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening resume PDF: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting resume text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("reading resume text: %w", err)
	}
	return buf.String(), nil
}

// BoundText truncates text to at most limit characters. The budget is a
// cost control for the downstream agent call, not a correctness concern.
func BoundText(text string, limit int) string {
	if limit > 0 && len(text) > limit {
		return text[:limit]
	}
	return text
}
