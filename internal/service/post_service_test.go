package service

import (
	"context"
	"testing"

	"tsudoi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openChannelStub() *channelRepoStub {
	return &channelRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Channel, error) {
			return &models.Channel{ID: id, ChannelType: models.ChannelTypeAllPostAllView}, nil
		},
	}
}

func TestPostService_CreatePostDeniedForTrial(t *testing.T) {
	t.Parallel()
	// Trial participants can read the open channel but never post in it.
	svc := NewPostService(&postRepoStub{}, openChannelStub(), fixedRole(models.RoleTrial), nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:    9,
		ChannelID: 1,
		Content:   "hello from trial",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func TestPostService_CreatePostAllowedForMember(t *testing.T) {
	t.Parallel()
	created := false
	posts := &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			created = true
			post.ID = 11
			return nil
		},
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, Content: "hello", ChannelID: 1}, nil
		},
	}
	svc := NewPostService(posts, openChannelStub(), fixedRole(models.RoleJCGMember), nil)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:    9,
		ChannelID: 1,
		Content:   "  hello  ",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(11), post.ID)
}

func TestPostService_CreatePostValidatesContent(t *testing.T) {
	t.Parallel()
	svc := NewPostService(&postRepoStub{}, openChannelStub(), fixedRole(models.RoleServerAdmin), nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, ChannelID: 1, Content: "   "})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestPostService_ListPostsDeniedForHiddenChannel(t *testing.T) {
	t.Parallel()
	channels := &channelRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Channel, error) {
			return &models.Channel{ID: id, ChannelType: models.ChannelTypeClass1PostClass1View}, nil
		},
	}
	svc := NewPostService(&postRepoStub{}, channels, fixedRole(models.RoleECGMember), nil)

	_, err := svc.ListPosts(context.Background(), ListPostsInput{ChannelID: 5, UserID: 9, Limit: 20})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func TestPostService_DeletePostOwnerOrAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		actorID  uint
		role     models.Role
		wantCode string
	}{
		{"Owner may delete", 10, models.RoleECGMember, ""},
		{"Admin may delete", 99, models.RoleServerAdmin, ""},
		{"Instructor may not delete others' posts", 99, models.RoleECGInstructor, models.CodeForbidden},
		{"Member may not delete others' posts", 99, models.RoleJCGMember, models.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			posts := &postRepoStub{
				getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
					return &models.Post{ID: id, UserID: 10, ChannelID: 1}, nil
				},
				deleteFn: func(context.Context, uint) error {
					deleted = true
					return nil
				},
			}
			svc := NewPostService(posts, openChannelStub(), fixedRole(tt.role), nil)

			err := svc.DeletePost(context.Background(), DeletePostInput{UserID: tt.actorID, PostID: 3})
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.True(t, deleted)
			} else {
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
				assert.False(t, deleted)
			}
		})
	}
}

func TestPostService_ToggleLike(t *testing.T) {
	t.Parallel()

	liked := false
	posts := &postRepoStub{
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			likeCount := int64(0)
			if liked {
				likeCount = 1
			}
			return &models.Post{ID: id, ChannelID: 1, LikeCount: likeCount, UserLiked: liked}, nil
		},
		isLikedFn: func(context.Context, uint, uint) (bool, error) {
			return liked, nil
		},
		likeFn: func(context.Context, uint, uint) error {
			liked = true
			return nil
		},
		unlikeFn: func(context.Context, uint, uint) error {
			liked = false
			return nil
		},
	}
	// Trial role: view access is enough to like.
	svc := NewPostService(posts, openChannelStub(), fixedRole(models.RoleTrial), nil)
	ctx := context.Background()

	post, err := svc.ToggleLike(ctx, 9, 3)
	require.NoError(t, err)
	assert.True(t, post.UserLiked)
	assert.Equal(t, int64(1), post.LikeCount)

	post, err = svc.ToggleLike(ctx, 9, 3)
	require.NoError(t, err)
	assert.False(t, post.UserLiked)
	assert.Equal(t, int64(0), post.LikeCount)
}
