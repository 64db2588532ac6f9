// File: internal/services/chat/context.go
package chat

import (
	"strings"

	"github.com/docutalk/docutalk/internal/services/pinecone"
)

// ContextSeparator sits between retrieved chunks in the assembled context.
const ContextSeparator = "\n---\n"

// RAGService turns ranked vector matches into the bounded context block
// that goes into the prompt.
type RAGService struct {
	config *Config
	logger Logger
}

func NewRAGService(config *Config, logger Logger) *RAGService {
	return &RAGService{config: config, logger: logger}
}

// BuildContext concatenates match texts in rank order and truncates the
// result to the configured character budget. Matches arrive best first, so
// truncation always favors the most relevant chunks.
func (r *RAGService) BuildContext(matches []pinecone.Match) string {
	if len(matches) == 0 {
		return ""
	}

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Metadata.Text == "" {
			continue
		}
		texts = append(texts, m.Metadata.Text)
	}

	joined := strings.Join(texts, ContextSeparator)
	truncated := truncateRunes(joined, r.config.ContextCharBudget)
	if len(truncated) < len(joined) {
		r.logger.Debug("context truncated to budget",
			"budget", r.config.ContextCharBudget, "matches", len(matches))
	}
	return truncated
}

// Sources returns the unique document titles behind the matches, in rank
// order.
func (r *RAGService) Sources(matches []pinecone.Match) []string {
	var sources []string
	seen := make(map[string]bool)
	for _, m := range matches {
		title := strings.TrimSpace(m.Metadata.Title)
		if title == "" || seen[title] {
			continue
		}
		sources = append(sources, title)
		seen[title] = true
	}
	return sources
}

func truncateRunes(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= maxLen {
		return input
	}
	return string(runes[:maxLen])
}
