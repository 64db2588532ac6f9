// File: internal/services/chat/prompt.go
package chat

import (
	"fmt"
	"strings"
)

// NoAnswerSentence is the fixed reply the model must use when neither the
// retrieved context nor the conversation history answers the question.
const NoAnswerSentence = "I'm your AI Powered PDF assistant - I don't have that particular information available. I'd be happy to assist you with content from your uploaded documents."

// BuildPrompt assembles the final prompt from the history window, the
// truncated document context and the question. History older than the
// window has already been dropped by the caller; it is never summarized.
func (r *RAGService) BuildPrompt(history []Turn, docContext, question string) string {
	var hb strings.Builder
	if len(history) == 0 {
		hb.WriteString("(none)\n")
	}
	for _, turn := range history {
		hb.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
	}

	if strings.TrimSpace(docContext) == "" {
		docContext = "(no matching document content)"
	}

	return fmt.Sprintf(`You are an AI assistant helping users with information from their uploaded documents. Use the provided context to answer the question accurately.

Conversation History:
%s
Document Context:
%s

Question: %s

Instructions:
1. Answer the question using primarily the document context above.
2. Use the conversation history to maintain context and continuity.
3. If the answer is not contained within either the conversation history or the document context, respond with: "%s"
4. Be concise and to the point.
5. Use proper grammar and punctuation.
6. If someone asks for a list or if the answer is a list, provide a bulleted list format.
7. Do not fabricate information.
8. Maintain a friendly and helpful tone throughout the conversation.
`, hb.String(), docContext, question, NoAnswerSentence)
}
