// File: internal/repository/channel/interface.go
package channel

import (
	"context"

	"github.com/docutalk/docutalk/internal/domain"
)

type ChannelRepository interface {
	Create(ctx context.Context, channel *domain.Channel) (*domain.Channel, error)
	FindByID(ctx context.Context, channelID uint) (*domain.Channel, error)
	FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Channel, error)
	UpdateTitle(ctx context.Context, channelID uint, title string) error
	Delete(ctx context.Context, channelID, ownerID uint) error
	TouchUpdatedAt(ctx context.Context, channelID uint) error
	VerifyOwnership(ctx context.Context, channelID, ownerID uint) (bool, error)
}
