// Package extract defines the text-extraction collaborator boundary.
// PDF/DOCX/OCR extractors live outside this module; the plain-text
// implementation here covers text files and pre-extracted dumps.
package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// TextExtractor pulls raw text and a page count out of a stored file.
type TextExtractor interface {
	Extract(ctx context.Context, filePath, mimeType string) (text string, pageCount int, err error)
}

// PlainTextExtractor reads text files directly. Page count comes from
// "--- Page N ---" markers left by upstream PDF extraction, or from
// form-feed separators, otherwise 1.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

var pageMarker = regexp.MustCompile(`(?m)^--- Page \d+ ---$`)

func (e *PlainTextExtractor) Extract(ctx context.Context, filePath, mimeType string) (string, int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return text, 0, nil
	}

	pages := len(pageMarker.FindAllString(text, -1))
	if pages == 0 {
		pages = strings.Count(text, "\f") + 1
	}

	return text, pages, nil
}
