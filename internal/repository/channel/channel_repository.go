// File: internal/repository/channel/channel_repository.go
package channel

import (
	"context"
	"errors"
	"log"

	"github.com/docutalk/docutalk/internal/domain"
	"gorm.io/gorm"
)

var ErrChannelNotFound = errors.New("channel not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to channel")

type gormChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &gormChannelRepository{db: db}
}

func (r *gormChannelRepository) Create(ctx context.Context, channel *domain.Channel) (*domain.Channel, error) {
	if channel == nil || channel.OwnerID == 0 {
		return nil, errors.New("invalid channel: owner is required")
	}

	if err := r.db.WithContext(ctx).Create(channel).Error; err != nil {
		log.Printf("[ChannelRepository] Database error during channel creation for owner ID %d: %v", channel.OwnerID, err)
		return nil, errors.New("database error creating channel")
	}
	return channel, nil
}

func (r *gormChannelRepository) FindByID(ctx context.Context, channelID uint) (*domain.Channel, error) {
	if channelID == 0 {
		return nil, errors.New("invalid channel ID")
	}

	var channel domain.Channel
	err := r.db.WithContext(ctx).First(&channel, channelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChannelNotFound
	}
	if err != nil {
		log.Printf("[ChannelRepository] Database error finding channel ID %d: %v", channelID, err)
		return nil, errors.New("database error fetching channel")
	}
	return &channel, nil
}

func (r *gormChannelRepository) FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Channel, error) {
	if ownerID == 0 {
		return nil, errors.New("invalid owner ID")
	}

	var channels []domain.Channel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC, id DESC").
		Find(&channels).Error
	if err != nil {
		log.Printf("[ChannelRepository] Database error finding channels for owner ID %d: %v", ownerID, err)
		return nil, errors.New("database error fetching channels")
	}
	return channels, nil
}

func (r *gormChannelRepository) UpdateTitle(ctx context.Context, channelID uint, title string) error {
	if channelID == 0 {
		return errors.New("invalid channel ID")
	}
	if title == "" {
		return errors.New("title is required")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Channel{}).
		Where("id = ?", channelID).
		Update("title", title)
	if result.Error != nil {
		log.Printf("[ChannelRepository] Database error renaming channel ID %d: %v", channelID, result.Error)
		return errors.New("database error renaming channel")
	}
	if result.RowsAffected == 0 {
		return ErrChannelNotFound
	}
	return nil
}

func (r *gormChannelRepository) Delete(ctx context.Context, channelID, ownerID uint) error {
	if channelID == 0 || ownerID == 0 {
		return errors.New("invalid channel ID or owner ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", channelID, ownerID).
		Delete(&domain.Channel{})
	if result.Error != nil {
		log.Printf("[ChannelRepository] Database error deleting channel ID %d for owner ID %d: %v", channelID, ownerID, result.Error)
		return errors.New("database error deleting channel")
	}
	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}
	return nil
}

func (r *gormChannelRepository) TouchUpdatedAt(ctx context.Context, channelID uint) error {
	if channelID == 0 {
		return errors.New("invalid channel ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Channel{}).
		Where("id = ?", channelID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		log.Printf("[ChannelRepository] Database error updating timestamp for channel ID %d: %v", channelID, result.Error)
		return errors.New("database error updating channel timestamp")
	}
	if result.RowsAffected == 0 {
		return ErrChannelNotFound
	}
	return nil
}

func (r *gormChannelRepository) VerifyOwnership(ctx context.Context, channelID, ownerID uint) (bool, error) {
	if channelID == 0 || ownerID == 0 {
		return false, errors.New("invalid channel ID or owner ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Channel{}).
		Where("id = ? AND owner_id = ?", channelID, ownerID).
		Count(&count).Error
	if err != nil {
		log.Printf("[ChannelRepository] Database error checking channel ownership for channel ID %d, owner ID %d: %v", channelID, ownerID, err)
		return false, errors.New("database error checking channel ownership")
	}
	return count > 0, nil
}
