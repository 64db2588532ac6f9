// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/docutalk/docutalk/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, messageID uint) (*domain.Message, error)
	// FindByChannelID returns the full thread ordered by creation (oldest first).
	FindByChannelID(ctx context.Context, channelID uint) ([]domain.Message, error)
	// FindRecentByChannelID returns the last limit messages in creation order.
	FindRecentByChannelID(ctx context.Context, channelID uint, limit int) ([]domain.Message, error)
	// FindReplyTo returns the assistant message whose ReplyToMessageID is
	// userMessageID, or nil when no reply exists yet.
	FindReplyTo(ctx context.Context, userMessageID uint) (*domain.Message, error)
	// FindIDsAfter returns ids of every message in the channel created
	// after the given message, in creation order.
	FindIDsAfter(ctx context.Context, channelID, messageID uint) ([]uint, error)
	UpdateContent(ctx context.Context, messageID uint, content string) error
	// DeleteByIDs is idempotent: absent ids are not an error.
	DeleteByIDs(ctx context.Context, messageIDs []uint) error
	DeleteByChannelID(ctx context.Context, channelID uint) error
}
