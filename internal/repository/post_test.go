package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"tsudoi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type postFixture struct {
	db      *gorm.DB
	posts   PostRepository
	author  models.User
	reader  models.User
	channel models.Channel
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()

	catRepo := NewCategoryRepository(db)
	chRepo := NewChannelRepository(db)

	cat := &models.Category{Name: "Talk"}
	require.NoError(t, catRepo.Create(ctx, cat))
	ch := &models.Channel{Name: "general", CategoryID: cat.ID, ChannelType: models.ChannelTypeAllPostAllView}
	require.NoError(t, chRepo.Create(ctx, ch))

	author := models.User{Username: "author", Email: "author@example.com", Password: "pw"}
	reader := models.User{Username: "reader", Email: "reader@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&reader).Error)

	return &postFixture{
		db:      db,
		posts:   NewPostRepository(db),
		author:  author,
		reader:  reader,
		channel: *ch,
	}
}

func TestPostRepository_CountsComputedAtReadTime(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()
	comments := NewCommentRepository(f.db)

	post := &models.Post{Content: "hello", UserID: f.author.ID, ChannelID: f.channel.ID}
	require.NoError(t, f.posts.Create(ctx, post))

	require.NoError(t, comments.Create(ctx, &models.Comment{Content: "first", UserID: f.reader.ID, PostID: post.ID}))
	kept := &models.Comment{Content: "second", UserID: f.author.ID, PostID: post.ID}
	require.NoError(t, comments.Create(ctx, kept))
	removed := &models.Comment{Content: "third", UserID: f.reader.ID, PostID: post.ID}
	require.NoError(t, comments.Create(ctx, removed))
	require.NoError(t, comments.Delete(ctx, removed.ID))

	require.NoError(t, f.posts.Like(ctx, f.reader.ID, post.ID))

	got, err := f.posts.GetByID(ctx, post.ID, f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CommentCount, "deleted comments stay out of the count")
	assert.Equal(t, int64(1), got.LikeCount)
	assert.True(t, got.UserLiked)

	asAuthor, err := f.posts.GetByID(ctx, post.ID, f.author.ID)
	require.NoError(t, err)
	assert.False(t, asAuthor.UserLiked, "user_liked is relative to the caller")
}

func TestPostRepository_LikeIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()

	post := &models.Post{Content: "likeable", UserID: f.author.ID, ChannelID: f.channel.ID}
	require.NoError(t, f.posts.Create(ctx, post))

	// Repeated likes collapse onto the unique (user_id, post_id) row.
	require.NoError(t, f.posts.Like(ctx, f.reader.ID, post.ID))
	require.NoError(t, f.posts.Like(ctx, f.reader.ID, post.ID))
	require.NoError(t, f.posts.Like(ctx, f.reader.ID, post.ID))

	got, err := f.posts.GetByID(ctx, post.ID, f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)

	require.NoError(t, f.posts.Unlike(ctx, f.reader.ID, post.ID))
	require.NoError(t, f.posts.Unlike(ctx, f.reader.ID, post.ID))

	got, err = f.posts.GetByID(ctx, post.ID, f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LikeCount)
	assert.False(t, got.UserLiked)

	liked, err := f.posts.IsLiked(ctx, f.reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestPostRepository_ListByChannelNewestFirst(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()

	var ids []uint
	for _, content := range []string{"a", "b", "c"} {
		p := &models.Post{Content: content, UserID: f.author.ID, ChannelID: f.channel.ID}
		require.NoError(t, f.posts.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	posts, err := f.posts.ListByChannel(ctx, f.channel.ID, 10, 0, f.reader.ID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, ids[2], posts[0].ID)
	assert.Equal(t, ids[1], posts[1].ID)
	assert.Equal(t, ids[0], posts[2].ID)

	page, err := f.posts.ListByChannel(ctx, f.channel.ID, 2, 2, f.reader.ID)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()
	comments := NewCommentRepository(f.db)

	post := &models.Post{Content: "doomed", UserID: f.author.ID, ChannelID: f.channel.ID}
	require.NoError(t, f.posts.Create(ctx, post))
	require.NoError(t, comments.Create(ctx, &models.Comment{Content: "gone too", UserID: f.reader.ID, PostID: post.ID}))
	require.NoError(t, f.posts.Like(ctx, f.reader.ID, post.ID))

	require.NoError(t, f.posts.Delete(ctx, post.ID))

	_, err := f.posts.GetByID(ctx, post.ID, f.reader.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	remaining, err := comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	var likeRows int64
	require.NoError(t, f.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeRows).Error)
	assert.Equal(t, int64(0), likeRows)
}

func TestPostRepository_CreatePropagatesDatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(ctx, &models.Post{Content: "x", UserID: 1, ChannelID: 1})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
