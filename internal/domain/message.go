// File: internal/domain/message.go
package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a channel's conversation thread.
//
// ReplyToMessageID is a back-reference, never ownership: an assistant
// message points at the user message it answers. At most one assistant
// reply exists per user message at any time; editing a question rewrites
// the existing reply instead of appending a new one.
type Message struct {
	ID                 uint   `gorm:"primarykey" json:"id"`
	ChannelID          uint   `gorm:"not null;index" json:"channel_id"`
	Role               string `gorm:"not null" json:"role"` // "user" or "assistant"
	Content            string `gorm:"not null" json:"content"`
	ReplyToMessageID   *uint  `gorm:"index" json:"reply_to_message_id,omitempty"`
	AttachedDocumentID *uint  `json:"attached_document_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
