// File: internal/domain/channel.go
package domain

import "time"

// Channel represents a single conversation scope. It owns the documents
// that were ingested into it and the message thread asked against them.
type Channel struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	OwnerID   uint   `gorm:"not null;index" json:"owner_id"`
	Title     string `json:"title"` // Generated from the first question, e.g. "Kubernetes Networking Basics"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
