package service

import (
	"context"
	"errors"
	"strings"

	"tsudoi/internal/models"
	"tsudoi/internal/policy"
	"tsudoi/internal/repository"

	"gorm.io/gorm"
)

// CommentService handles comments under posts. Commenting counts as posting
// for policy purposes, so a role that may only read a channel may not comment
// in it either.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	channelRepo repository.ChannelRepository
	roleOf      func(ctx context.Context, userID uint) (models.Role, error)
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	channelRepo repository.ChannelRepository,
	roleOf func(ctx context.Context, userID uint) (models.Role, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		channelRepo: channelRepo,
		roleOf:      roleOf,
	}
}

// postDecision resolves the policy decision for the channel owning a post.
func (s *CommentService) postDecision(ctx context.Context, postID, userID uint) (*models.Post, policy.Decision, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.Decision{}, models.NewNotFoundError("Post", postID)
		}
		return nil, policy.Decision{}, err
	}
	role, err := s.roleOf(ctx, userID)
	if err != nil {
		return nil, policy.Decision{}, err
	}
	channel, err := s.channelRepo.GetByID(ctx, post.ChannelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.Decision{}, models.NewNotFoundError("Channel", post.ChannelID)
		}
		return nil, policy.Decision{}, err
	}
	return post, policy.Evaluate(channel.ChannelType, role), nil
}

func (s *CommentService) ListComments(ctx context.Context, postID, userID uint) ([]*models.Comment, error) {
	_, decision, err := s.postDecision(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !decision.CanView {
		return nil, models.NewForbiddenError("You do not have access to this channel")
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const maxContentLen = 5000

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}

	_, decision, err := s.postDecision(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !decision.CanPost {
		return nil, models.NewForbiddenError("Your role cannot comment in this channel")
	}

	comment := &models.Comment{
		Content: content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", in.CommentID)
		}
		return err
	}

	if comment.UserID != in.UserID {
		role, err := s.roleOf(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !role.IsAdmin() {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}
