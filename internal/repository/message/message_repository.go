// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"log"

	"github.com/docutalk/docutalk/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if message == nil || message.ChannelID == 0 {
		return nil, errors.New("invalid message: channel is required")
	}
	if message.Role != domain.RoleUser && message.Role != domain.RoleAssistant {
		return nil, errors.New("invalid message: unknown role")
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message creation for channel ID %d: %v", message.ChannelID, err)
		return nil, errors.New("database error creating message")
	}
	return message, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID uint) (*domain.Message, error) {
	if messageID == 0 {
		return nil, errors.New("invalid message ID")
	}

	var message domain.Message
	err := r.db.WithContext(ctx).First(&message, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		log.Printf("[MessageRepository] Database error finding message ID %d: %v", messageID, err)
		return nil, errors.New("database error fetching message")
	}
	return &message, nil
}

func (r *gormMessageRepository) FindByChannelID(ctx context.Context, channelID uint) ([]domain.Message, error) {
	if channelID == 0 {
		return nil, errors.New("invalid channel ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for channel ID %d: %v", channelID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) FindRecentByChannelID(ctx context.Context, channelID uint, limit int) ([]domain.Message, error) {
	if channelID == 0 {
		return nil, errors.New("invalid channel ID")
	}
	if limit <= 0 {
		return nil, nil
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding recent messages for channel ID %d: %v", channelID, err)
		return nil, errors.New("database error fetching recent messages")
	}

	// Reverse back into creation order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *gormMessageRepository) FindReplyTo(ctx context.Context, userMessageID uint) (*domain.Message, error) {
	if userMessageID == 0 {
		return nil, errors.New("invalid message ID")
	}

	var message domain.Message
	err := r.db.WithContext(ctx).
		Where("reply_to_message_id = ? AND role = ?", userMessageID, domain.RoleAssistant).
		Order("id ASC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("[MessageRepository] Database error finding reply to message ID %d: %v", userMessageID, err)
		return nil, errors.New("database error fetching reply")
	}
	return &message, nil
}

func (r *gormMessageRepository) FindIDsAfter(ctx context.Context, channelID, messageID uint) ([]uint, error) {
	if channelID == 0 || messageID == 0 {
		return nil, errors.New("invalid channel ID or message ID")
	}

	anchor, err := r.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	var ids []uint
	err = r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("channel_id = ? AND (created_at > ? OR (created_at = ? AND id > ?))",
			channelID, anchor.CreatedAt, anchor.CreatedAt, anchor.ID).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages after ID %d in channel %d: %v", messageID, channelID, err)
		return nil, errors.New("database error fetching downstream messages")
	}
	return ids, nil
}

func (r *gormMessageRepository) UpdateContent(ctx context.Context, messageID uint, content string) error {
	if messageID == 0 {
		return errors.New("invalid message ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", messageID).
		Update("content", content)
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error updating message ID %d: %v", messageID, result.Error)
		return errors.New("database error updating message")
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *gormMessageRepository) DeleteByIDs(ctx context.Context, messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return nil
	}

	// Deleting already-absent ids is not an error.
	err := r.db.WithContext(ctx).
		Where("id IN ?", messageIDs).
		Delete(&domain.Message{}).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error in batch message delete: %v", err)
		return errors.New("database error deleting messages")
	}
	return nil
}

func (r *gormMessageRepository) DeleteByChannelID(ctx context.Context, channelID uint) error {
	if channelID == 0 {
		return errors.New("invalid channel ID")
	}

	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Delete(&domain.Message{}).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error deleting messages for channel ID %d: %v", channelID, err)
		return errors.New("database error deleting channel messages")
	}
	return nil
}
