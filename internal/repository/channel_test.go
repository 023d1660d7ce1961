package repository

import (
	"context"
	"errors"
	"testing"

	"tsudoi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestChannelRepository_CreateAssignsPerCategoryOrder(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	catRepo := NewCategoryRepository(db)
	chRepo := NewChannelRepository(db)
	ctx := context.Background()

	a := &models.Category{Name: "A"}
	b := &models.Category{Name: "B"}
	require.NoError(t, catRepo.Create(ctx, a))
	require.NoError(t, catRepo.Create(ctx, b))

	chA1 := &models.Channel{Name: "a1", CategoryID: a.ID, ChannelType: models.ChannelTypeAllPostAllView}
	chA2 := &models.Channel{Name: "a2", CategoryID: a.ID, ChannelType: models.ChannelTypeAdminOnlyAllView}
	chB1 := &models.Channel{Name: "b1", CategoryID: b.ID, ChannelType: models.ChannelTypeAllPostAllView}
	require.NoError(t, chRepo.Create(ctx, chA1))
	require.NoError(t, chRepo.Create(ctx, chA2))
	require.NoError(t, chRepo.Create(ctx, chB1))

	assert.Equal(t, 0, chA1.DisplayOrder)
	assert.Equal(t, 1, chA2.DisplayOrder)
	assert.Equal(t, 0, chB1.DisplayOrder, "display order restarts per category")
}

func TestChannelRepository_CreateRequiresCategory(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	chRepo := NewChannelRepository(db)
	ctx := context.Background()

	err := chRepo.Create(ctx, &models.Channel{Name: "orphan", CategoryID: 9999, ChannelType: models.ChannelTypeAllPostAllView})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestChannelRepository_ReorderScopedToCategory(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	catRepo := NewCategoryRepository(db)
	chRepo := NewChannelRepository(db)
	ctx := context.Background()

	a := &models.Category{Name: "A"}
	b := &models.Category{Name: "B"}
	require.NoError(t, catRepo.Create(ctx, a))
	require.NoError(t, catRepo.Create(ctx, b))

	chA1 := &models.Channel{Name: "a1", CategoryID: a.ID, ChannelType: models.ChannelTypeAllPostAllView}
	chA2 := &models.Channel{Name: "a2", CategoryID: a.ID, ChannelType: models.ChannelTypeAllPostAllView}
	chB1 := &models.Channel{Name: "b1", CategoryID: b.ID, ChannelType: models.ChannelTypeAllPostAllView}
	require.NoError(t, chRepo.Create(ctx, chA1))
	require.NoError(t, chRepo.Create(ctx, chA2))
	require.NoError(t, chRepo.Create(ctx, chB1))

	require.NoError(t, chRepo.Reorder(ctx, a.ID, []uint{chA2.ID, chA1.ID}))

	channels, err := chRepo.ListByCategory(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "a2", channels[0].Name)
	assert.Equal(t, "a1", channels[1].Name)

	// A channel from another category cannot be smuggled into the batch.
	err = chRepo.Reorder(ctx, a.ID, []uint{chA1.ID, chB1.ID})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestChannelRepository_DeleteRemovesPosts(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	catRepo := NewCategoryRepository(db)
	chRepo := NewChannelRepository(db)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	cat := &models.Category{Name: "Temp"}
	require.NoError(t, catRepo.Create(ctx, cat))
	ch := &models.Channel{Name: "doomed", CategoryID: cat.ID, ChannelType: models.ChannelTypeAllPostAllView}
	require.NoError(t, chRepo.Create(ctx, ch))

	user := models.User{Username: "poster", Email: "poster@example.com", Password: "pw"}
	require.NoError(t, db.Create(&user).Error)

	post := &models.Post{Content: "bye", UserID: user.ID, ChannelID: ch.ID}
	require.NoError(t, postRepo.Create(ctx, post))
	require.NoError(t, commentRepo.Create(ctx, &models.Comment{Content: "c", UserID: user.ID, PostID: post.ID}))
	require.NoError(t, postRepo.Like(ctx, user.ID, post.ID))

	require.NoError(t, chRepo.Delete(ctx, ch.ID))

	_, err := chRepo.GetByID(ctx, ch.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = postRepo.GetByID(ctx, post.ID, user.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var likeRows int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeRows).Error)
	assert.Equal(t, int64(0), likeRows)

	// The category survives and is deletable once emptied.
	require.NoError(t, catRepo.Delete(ctx, cat.ID))
}
