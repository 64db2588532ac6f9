// File: internal/services/extract/extractor.go
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoText = errors.New("no text could be extracted")

// Extractor converts raw uploads into plain text. PDF bytes go through the
// PDF reader page by page; anything else is treated as plain text.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// FromPDF extracts text from PDF bytes. Unreadable pages are skipped
// instead of failing the whole document.
func (e *Extractor) FromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}

	if b.Len() == 0 {
		return "", ErrNoText
	}
	return normalize(b.String()), nil
}

// FromText passes raw text input through unchanged apart from line-ending
// normalization.
func (e *Extractor) FromText(input string) string {
	return normalize(input)
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
