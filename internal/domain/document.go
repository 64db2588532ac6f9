// File: internal/domain/document.go
package domain

import "time"

// Document is an ingested artifact. VectorIDs is the exact set of vector
// record ids this document produced in the index: every id exists in the
// index while the document exists, and removing the document removes
// exactly those ids.
type Document struct {
	ID        uint     `gorm:"primarykey" json:"id"`
	ChannelID uint     `gorm:"not null;index" json:"channel_id"`
	Title     string   `gorm:"not null" json:"title"`
	VectorIDs []string `gorm:"serializer:json" json:"vector_ids"`
	ObjectKey string   `json:"object_key,omitempty"`
	FileURL   string   `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}
