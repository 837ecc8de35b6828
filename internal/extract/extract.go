// Package extract pulls plain text out of PDF and DOCX documents.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/docx"
	"github.com/tsawler/tabula/reader"
)

// ErrUnsupportedType is returned for any extension other than .pdf or .docx.
var ErrUnsupportedType = errors.New("unsupported file type (only .pdf / .docx)")

// Extractor is the collaborator interface the indexing pipeline depends on.
type Extractor interface {
	Extract(path string) (string, error)
}

// FileExtractor extracts clean text from documents on disk.
type FileExtractor struct{}

func New() *FileExtractor {
	return &FileExtractor{}
}

// Extract detects the file type by extension and returns the document's
// text. It fails with a wrapped os.ErrNotExist when the path is missing
// and with ErrUnsupportedType for unknown extensions.
func (e *FileExtractor) Extract(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s: %w", path, os.ErrNotExist)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
}

func extractPDF(path string) (string, error) {
	r, err := reader.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() {
		_ = r.Close()
	}()

	text, _, err := tabula.FromReader(r).JoinParagraphs().Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from PDF %s: %w", path, err)
	}
	return strings.TrimSpace(text), nil
}

func extractDOCX(path string) (string, error) {
	r, err := docx.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX %s: %w", path, err)
	}
	defer func() {
		_ = r.Close()
	}()

	text, err := r.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from DOCX %s: %w", path, err)
	}
	return strings.TrimSpace(text), nil
}
