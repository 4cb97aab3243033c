// Package ingest turns source documents into stored chunks and summaries.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrExtractionFailed wraps every extraction failure.
var ErrExtractionFailed = errors.New("text extraction failed")

// Extractor pulls plain text out of a document.
type Extractor interface {
	Extract(path string) (string, error)
}

// FileExtractor reads plain text and Markdown files from disk.
type FileExtractor struct {
	// MaxBytes rejects larger files. Zero means 32 MiB.
	MaxBytes int64
}

const defaultMaxBytes = 32 << 20

var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// Supported reports whether path has an extension FileExtractor handles.
func Supported(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract returns the file's text with line endings normalized.
func (e FileExtractor) Extract(path string) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("%w: %s: unsupported file type %q", ErrExtractionFailed, path, filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrExtractionFailed, path)
	}
	limit := e.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	if info.Size() > limit {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrExtractionFailed, path, limit)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrExtractionFailed, path)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s has no text", ErrExtractionFailed, path)
	}
	return text, nil
}
