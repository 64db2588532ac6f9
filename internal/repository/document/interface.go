// File: internal/repository/document/interface.go
package document

import (
	"context"

	"github.com/docutalk/docutalk/internal/domain"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	FindByID(ctx context.Context, docID uint) (*domain.Document, error)
	FindByChannelID(ctx context.Context, channelID uint) ([]domain.Document, error)
	Delete(ctx context.Context, docID uint) error
}
