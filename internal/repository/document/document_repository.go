// File: internal/repository/document/document_repository.go
package document

import (
	"context"
	"errors"
	"log"

	"github.com/docutalk/docutalk/internal/domain"
	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

type gormDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

func (r *gormDocumentRepository) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if doc == nil || doc.ChannelID == 0 {
		return nil, errors.New("invalid document: channel is required")
	}
	if doc.Title == "" {
		return nil, errors.New("invalid document: title is required")
	}

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		log.Printf("[DocumentRepository] Database error during document creation for channel ID %d: %v", doc.ChannelID, err)
		return nil, errors.New("database error creating document")
	}
	return doc, nil
}

func (r *gormDocumentRepository) FindByID(ctx context.Context, docID uint) (*domain.Document, error) {
	if docID == 0 {
		return nil, errors.New("invalid document ID")
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).First(&doc, docID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		log.Printf("[DocumentRepository] Database error finding document ID %d: %v", docID, err)
		return nil, errors.New("database error fetching document")
	}
	return &doc, nil
}

func (r *gormDocumentRepository) FindByChannelID(ctx context.Context, channelID uint) ([]domain.Document, error) {
	if channelID == 0 {
		return nil, errors.New("invalid channel ID")
	}

	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at DESC, id DESC").
		Find(&docs).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error finding documents for channel ID %d: %v", channelID, err)
		return nil, errors.New("database error fetching documents")
	}
	return docs, nil
}

func (r *gormDocumentRepository) Delete(ctx context.Context, docID uint) error {
	if docID == 0 {
		return errors.New("invalid document ID")
	}

	result := r.db.WithContext(ctx).Delete(&domain.Document{}, docID)
	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error deleting document ID %d: %v", docID, result.Error)
		return errors.New("database error deleting document")
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
