package service

import (
	"context"
	"testing"

	"tsudoi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentFixtureRepos(channelType models.ChannelType) (*commentRepoStub, *postRepoStub, *channelRepoStub) {
	comments := &commentRepoStub{}
	posts := &postRepoStub{
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, ChannelID: 1}, nil
		},
	}
	channels := &channelRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Channel, error) {
			return &models.Channel{ID: id, ChannelType: channelType}, nil
		},
	}
	return comments, posts, channels
}

func TestCommentService_CreateCommentFollowsPostPermission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		channelType models.ChannelType
		role        models.Role
		wantCode    string
	}{
		{"Member comments in open channel", models.ChannelTypeAllPostAllView, models.RoleECGMember, ""},
		{"Trial cannot comment in open channel", models.ChannelTypeAllPostAllView, models.RoleTrial, models.CodeForbidden},
		{"Member cannot comment under announcements", models.ChannelTypeAdminOnlyAllView, models.RoleJCGMember, models.CodeForbidden},
		{"Admin comments under announcements", models.ChannelTypeAdminOnlyAllView, models.RoleServerAdmin, ""},
		{"Member cannot comment in instructor feed", models.ChannelTypeInstructorsPostAllView, models.RoleECGMember, models.CodeForbidden},
		{"Instructor comments in instructor feed", models.ChannelTypeInstructorsPostAllView, models.RoleECGInstructor, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments, posts, channels := commentFixtureRepos(tt.channelType)
			comments.createFn = func(_ context.Context, c *models.Comment) error {
				c.ID = 21
				return nil
			}
			comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, Content: "こんにちは"}, nil
			}
			svc := NewCommentService(comments, posts, channels, fixedRole(tt.role))

			comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
				UserID:  9,
				PostID:  3,
				Content: "こんにちは",
			})
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, uint(21), comment.ID)
			} else {
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestCommentService_ListCommentsRequiresViewAccess(t *testing.T) {
	t.Parallel()

	comments, posts, channels := commentFixtureRepos(models.ChannelTypeAdminOnlyInstructorsView)
	comments.listByPostFn = func(context.Context, uint) ([]*models.Comment, error) {
		return []*models.Comment{{ID: 1}, {ID: 2}}, nil
	}

	// Staff can read the thread, regular members cannot.
	staff := NewCommentService(comments, posts, channels, fixedRole(models.RoleJCGInstructor))
	got, err := staff.ListComments(context.Background(), 3, 9)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	member := NewCommentService(comments, posts, channels, fixedRole(models.RoleECGMember))
	_, err = member.ListComments(context.Background(), 3, 9)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func TestCommentService_DeleteCommentOwnerOrAdmin(t *testing.T) {
	t.Parallel()

	deleted := false
	comments := &commentRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10, PostID: 3}, nil
		},
		deleteFn: func(context.Context, uint) error {
			deleted = true
			return nil
		},
	}
	svc := NewCommentService(comments, &postRepoStub{}, &channelRepoStub{}, fixedRole(models.RoleECGMember))

	err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 11, CommentID: 5})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
	assert.False(t, deleted)

	require.NoError(t, svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 10, CommentID: 5}))
	assert.True(t, deleted)
}
