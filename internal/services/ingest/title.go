// File: internal/services/ingest/title.go
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/docutalk/docutalk/internal/services/ai"
)

// FallbackTitle is used whenever title generation fails. Ingestion never
// fails solely because a title could not be generated.
const FallbackTitle = "Untitled Document"

type TitleService struct {
	config *Config
	llm    ai.CompletionProvider
	logger Logger
}

func NewTitleService(config *Config, llm ai.CompletionProvider, logger Logger) *TitleService {
	return &TitleService{config: config, llm: llm, logger: logger}
}

// Generate asks the model for a short descriptive document title based on
// a bounded prefix of the text.
func (t *TitleService) Generate(ctx context.Context, text string) string {
	prefix := truncateRunes(text, t.config.TitlePrefixLimit)
	prompt := fmt.Sprintf(`You are an assistant that generates concise and descriptive titles for documents.
Based on the following content, suggest a suitable title for the document (max 10 words):
---
%s
---`, prefix)

	ctx, cancel := context.WithTimeout(ctx, t.config.TitleTimeout)
	defer cancel()

	title, err := t.llm.GetCompletion(ctx, prompt)
	if err != nil {
		t.logger.Warn("title generation failed, using fallback", "error", err)
		return FallbackTitle
	}

	title = StripQuotes(title)
	if title == "" {
		return FallbackTitle
	}
	return title
}

// StripQuotes removes surrounding quote characters the model tends to add.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}

func truncateRunes(input string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= maxLen {
		return input
	}
	return string(runes[:maxLen])
}
