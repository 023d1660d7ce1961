package repository

import (
	"context"
	"errors"

	"tsudoi/internal/cache"
	"tsudoi/internal/models"

	"gorm.io/gorm"
)

// ErrCategoryNotEmpty is returned when deleting a category that still has
// channels. The caller must delete or move the channels first.
var ErrCategoryNotEmpty = errors.New("category still contains channels")

// channelPostCountSelect exposes each channel's live post total as a read-only
// column. Soft-deleted posts are excluded.
const channelPostCountSelect = "channels.*, " +
	"(SELECT COUNT(*) FROM posts WHERE posts.channel_id = channels.id AND posts.deleted_at IS NULL) as post_count"

// CategoryRepository defines persistence operations for the category tree.
type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Rename(ctx context.Context, id uint, name string) error
	SetCollapsed(ctx context.Context, id uint, collapsed bool) error
	Reorder(ctx context.Context, orderedIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns every category ordered by display_order with its channels
// attached, also ordered by display_order. Channels carry their post_count.
// The assembled tree is cache-aside'd under a single key because the sidebar
// fetches it on every page load.
func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category

	err := cache.Aside(ctx, cache.CatalogKey(), &categories, cache.CatalogTTL, func() error {
		if err := r.db.WithContext(ctx).
			Order("display_order ASC, id ASC").
			Find(&categories).Error; err != nil {
			return err
		}

		var channels []models.Channel
		if err := r.db.WithContext(ctx).
			Model(&models.Channel{}).
			Select(channelPostCountSelect).
			Order("display_order ASC, id ASC").
			Find(&channels).Error; err != nil {
			return err
		}

		byCategory := make(map[uint][]models.Channel, len(categories))
		for _, ch := range channels {
			byCategory[ch.CategoryID] = append(byCategory[ch.CategoryID], ch)
		}
		for _, cat := range categories {
			cat.Channels = byCategory[cat.ID]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Create appends the category at the end of the display order. The unique
// index on LOWER(name) makes concurrent creates with the same name collide;
// GORM translates the violation to gorm.ErrDuplicatedKey.
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&models.Category{}).
			Select("COALESCE(MAX(display_order), -1) + 1").
			Scan(&next).Error; err != nil {
			return err
		}
		category.DisplayOrder = next
		return tx.Create(category).Error
	})
	if err == nil {
		cache.InvalidateCatalog(ctx)
	}
	return err
}

func (r *categoryRepository) Rename(ctx context.Context, id uint, name string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateCatalog(ctx)
	return nil
}

func (r *categoryRepository) SetCollapsed(ctx context.Context, id uint, collapsed bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Update("is_collapsed", collapsed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateCatalog(ctx)
	return nil
}

// Reorder rewrites display_order to match the given ID sequence. The whole
// batch runs in one transaction so a concurrent reader never observes a
// half-applied ordering.
func (r *categoryRepository) Reorder(ctx context.Context, orderedIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, id := range orderedIDs {
			result := tx.Model(&models.Category{}).
				Where("id = ?", id).
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

// Delete removes an empty category. The existence check and the channel count
// run in the same transaction as the delete so a concurrently created channel
// cannot be orphaned.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}

		var channelCount int64
		if err := tx.Model(&models.Channel{}).
			Where("category_id = ?", id).
			Count(&channelCount).Error; err != nil {
			return err
		}
		if channelCount > 0 {
			return ErrCategoryNotEmpty
		}

		return tx.Delete(&models.Category{}, id).Error
	})
	if err == nil {
		cache.InvalidateCatalog(ctx)
	}
	return err
}
