package service

import (
	"context"
	"errors"
	"strings"

	"tsudoi/internal/models"
	"tsudoi/internal/notifications"
	"tsudoi/internal/policy"
	"tsudoi/internal/repository"

	"gorm.io/gorm"
)

// PostService handles posts and likes inside channels. Every operation
// resolves the caller's role and checks the owning channel's policy first.
type PostService struct {
	postRepo    repository.PostRepository
	channelRepo repository.ChannelRepository
	roleOf      func(ctx context.Context, userID uint) (models.Role, error)
	notifier    *notifications.Notifier
}

type CreatePostInput struct {
	UserID    uint
	ChannelID uint
	Content   string
	ImageURL  string
}

type ListPostsInput struct {
	ChannelID uint
	Limit     int
	Offset    int
	UserID    uint
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	channelRepo repository.ChannelRepository,
	roleOf func(ctx context.Context, userID uint) (models.Role, error),
	notifier *notifications.Notifier,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		channelRepo: channelRepo,
		roleOf:      roleOf,
		notifier:    notifier,
	}
}

// channelAccess loads the channel and evaluates the caller's permissions on
// it in one step.
func (s *PostService) channelAccess(ctx context.Context, channelID, userID uint) (*models.Channel, policy.Decision, error) {
	role, err := s.roleOf(ctx, userID)
	if err != nil {
		return nil, policy.Decision{}, err
	}
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.Decision{}, models.NewNotFoundError("Channel", channelID)
		}
		return nil, policy.Decision{}, err
	}
	return channel, policy.Evaluate(channel.ChannelType, role), nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	_, decision, err := s.channelAccess(ctx, in.ChannelID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !decision.CanView {
		return nil, models.NewForbiddenError("You do not have access to this channel")
	}
	return s.postRepo.ListByChannel(ctx, in.ChannelID, in.Limit, in.Offset, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	_, decision, err := s.channelAccess(ctx, post.ChannelID, userID)
	if err != nil {
		return nil, err
	}
	if !decision.CanView {
		return nil, models.NewForbiddenError("You do not have access to this channel")
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxContentLen = 10000

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	_, decision, err := s.channelAccess(ctx, in.ChannelID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !decision.CanPost {
		return nil, models.NewForbiddenError("Your role cannot post in this channel")
	}

	post := &models.Post{
		Content:   content,
		ImageURL:  strings.TrimSpace(in.ImageURL),
		UserID:    in.UserID,
		ChannelID: in.ChannelID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Best effort; a dropped event never fails the write.
	_ = s.notifier.PublishPostEvent(ctx, notifications.PostEvent{
		Type:      "post_created",
		PostID:    post.ID,
		ChannelID: post.ChannelID,
		UserID:    post.UserID,
	})

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", in.PostID)
		}
		return err
	}

	if post.UserID != in.UserID {
		role, err := s.roleOf(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !role.IsAdmin() {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}

	_ = s.notifier.PublishPostEvent(ctx, notifications.PostEvent{
		Type:      "post_deleted",
		PostID:    in.PostID,
		ChannelID: post.ChannelID,
		UserID:    in.UserID,
	})
	return nil
}

// ToggleLike flips the caller's like on a post and returns the post with
// fresh counts. Liking requires only view access; a trial member who can read
// an open channel may like what they read.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	_, decision, err := s.channelAccess(ctx, post.ChannelID, userID)
	if err != nil {
		return nil, err
	}
	if !decision.CanView {
		return nil, models.NewForbiddenError("You do not have access to this channel")
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if isLiked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.Like(ctx, userID, postID); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

// ListUserPosts returns a member's post history, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	role, err := s.roleOf(ctx, currentUserID)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByUser(ctx, userID, limit, offset, currentUserID)
	if err != nil {
		return nil, err
	}

	// Posts in channels the caller cannot see are filtered out.
	visible := make([]*models.Post, 0, len(posts))
	channelTypes := make(map[uint]models.ChannelType)
	for _, p := range posts {
		channelType, ok := channelTypes[p.ChannelID]
		if !ok {
			channel, err := s.channelRepo.GetByID(ctx, p.ChannelID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return nil, err
			}
			channelType = channel.ChannelType
			channelTypes[p.ChannelID] = channelType
		}
		if policy.CanView(channelType, role) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}
