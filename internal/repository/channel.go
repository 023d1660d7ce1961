package repository

import (
	"context"

	"tsudoi/internal/cache"
	"tsudoi/internal/models"

	"gorm.io/gorm"
)

// ChannelRepository defines persistence operations for channels.
type ChannelRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Channel, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]*models.Channel, error)
	Create(ctx context.Context, channel *models.Channel) error
	Update(ctx context.Context, channel *models.Channel) error
	Reorder(ctx context.Context, categoryID uint, orderedIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository returns a new ChannelRepository implementation.
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// GetByID loads a channel with its post_count. Every post read and write
// passes through here for the access check, so the row is cache-aside'd.
func (r *channelRepository) GetByID(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	key := cache.ChannelKey(id)

	err := cache.Aside(ctx, key, &channel, cache.ChannelTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Channel{}).
			Select(channelPostCountSelect).
			First(&channel, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) ListByCategory(ctx context.Context, categoryID uint) ([]*models.Channel, error) {
	var channels []*models.Channel
	err := r.db.WithContext(ctx).
		Model(&models.Channel{}).
		Select(channelPostCountSelect).
		Where("category_id = ?", categoryID).
		Order("display_order ASC, id ASC").
		Find(&channels).Error
	return channels, err
}

// Create appends the channel at the end of its category's display order. The
// parent category is checked inside the transaction so the channel cannot
// land in a category deleted concurrently.
func (r *channelRepository) Create(ctx context.Context, channel *models.Channel) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, channel.CategoryID).Error; err != nil {
			return err
		}

		var next int
		if err := tx.Model(&models.Channel{}).
			Where("category_id = ?", channel.CategoryID).
			Select("COALESCE(MAX(display_order), -1) + 1").
			Scan(&next).Error; err != nil {
			return err
		}
		channel.DisplayOrder = next
		return tx.Create(channel).Error
	})
	if err == nil {
		cache.InvalidateCatalog(ctx)
	}
	return err
}

func (r *channelRepository) Update(ctx context.Context, channel *models.Channel) error {
	if err := r.db.WithContext(ctx).Save(channel).Error; err != nil {
		return err
	}
	cache.InvalidateChannel(ctx, channel.ID)
	return nil
}

// Reorder rewrites display_order within one category to match the given ID
// sequence. IDs belonging to other categories are rejected by the WHERE
// clause and surface as gorm.ErrRecordNotFound.
func (r *channelRepository) Reorder(ctx context.Context, categoryID uint, orderedIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, id := range orderedIDs {
			result := tx.Model(&models.Channel{}).
				Where("id = ? AND category_id = ?", id, categoryID).
				Update("display_order", position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err == nil {
		cache.InvalidateCatalog(ctx)
	}
	return err
}

// Delete removes a channel together with its posts. Posts and their comments
// are soft-deleted, likes are removed outright since they carry no deleted_at.
func (r *channelRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var channel models.Channel
		if err := tx.First(&channel, id).Error; err != nil {
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).
			Where("channel_id = ?", id).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("channel_id = ?", id).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Channel{}, id).Error
	})
	if err == nil {
		cache.InvalidateChannel(ctx, id)
	}
	return err
}
