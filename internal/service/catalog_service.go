// Package service implements the business rules on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"tsudoi/internal/models"
	"tsudoi/internal/policy"
	"tsudoi/internal/repository"
	"tsudoi/internal/validation"

	"gorm.io/gorm"
)

// CatalogService manages the category/channel tree and applies per-role
// visibility when serving it.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	channelRepo  repository.ChannelRepository
	roleOf       func(ctx context.Context, userID uint) (models.Role, error)
}

type CreateCategoryInput struct {
	ActorID uint
	Name    string
}

type RenameCategoryInput struct {
	ActorID    uint
	CategoryID uint
	Name       string
}

type CreateChannelInput struct {
	ActorID     uint
	CategoryID  uint
	Name        string
	Description string
	ChannelType models.ChannelType
}

type UpdateChannelInput struct {
	ActorID     uint
	ChannelID   uint
	Name        *string
	Description *string
	ChannelType *models.ChannelType
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	channelRepo repository.ChannelRepository,
	roleOf func(ctx context.Context, userID uint) (models.Role, error),
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		channelRepo:  channelRepo,
		roleOf:       roleOf,
	}
}

// requireAdmin resolves the actor's role and rejects non-admins before any
// mutation work is done.
func (s *CatalogService) requireAdmin(ctx context.Context, actorID uint) error {
	role, err := s.roleOf(ctx, actorID)
	if err != nil {
		return err
	}
	if !role.IsAdmin() {
		return models.NewForbiddenError("Administrator role required")
	}
	return nil
}

// ListCatalog returns the full tree with each category's channels filtered to
// what the caller's role may view. Categories are kept even when every
// channel in them is hidden, so the sidebar structure stays stable.
func (s *CatalogService) ListCatalog(ctx context.Context, userID uint) ([]*models.Category, error) {
	role, err := s.roleOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, cat := range categories {
		visible := make([]models.Channel, 0, len(cat.Channels))
		for _, ch := range cat.Channels {
			if policy.CanView(ch.ChannelType, role) {
				visible = append(visible, ch)
			}
		}
		cat.Channels = visible
	}
	return categories, nil
}

// ListCategoryChannels returns one category's channels filtered to what the
// caller's role may view.
func (s *CatalogService) ListCategoryChannels(ctx context.Context, categoryID, userID uint) ([]*models.Channel, error) {
	role, err := s.roleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", categoryID)
		}
		return nil, err
	}
	channels, err := s.channelRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.Channel, 0, len(channels))
	for _, ch := range channels {
		if policy.CanView(ch.ChannelType, role) {
			visible = append(visible, ch)
		}
	}
	return visible, nil
}

// GetChannel returns one channel if the caller's role may view it.
func (s *CatalogService) GetChannel(ctx context.Context, channelID, userID uint) (*models.Channel, error) {
	role, err := s.roleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Channel", channelID)
		}
		return nil, err
	}
	if !policy.CanView(channel.ChannelType, role) {
		return nil, models.NewForbiddenError("You do not have access to this channel")
	}
	return channel, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := validation.CategoryName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewDuplicateNameError(name)
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) RenameCategory(ctx context.Context, in RenameCategoryInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := validation.CategoryName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if err := s.categoryRepo.Rename(ctx, in.CategoryID, name); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, models.NewDuplicateNameError(name)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, models.NewNotFoundError("Category", in.CategoryID)
		}
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, in.CategoryID)
}

// SetCategoryCollapsed stores the admin's default collapse state for a
// category header. This is server-wide layout, not a per-user preference.
func (s *CatalogService) SetCategoryCollapsed(ctx context.Context, actorID, categoryID uint, collapsed bool) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.categoryRepo.SetCollapsed(ctx, categoryID, collapsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Category", categoryID)
		}
		return err
	}
	return nil
}

func (s *CatalogService) ReorderCategories(ctx context.Context, actorID uint, orderedIDs []uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if len(orderedIDs) == 0 {
		return models.NewValidationError("Ordered category IDs are required")
	}
	if err := s.categoryRepo.Reorder(ctx, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewValidationError("Unknown category ID in ordering")
		}
		return err
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, actorID, categoryID uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotEmpty):
			return models.NewNotEmptyError("Category still contains channels; delete or move them first")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return models.NewNotFoundError("Category", categoryID)
		}
		return err
	}
	return nil
}

func (s *CatalogService) CreateChannel(ctx context.Context, in CreateChannelInput) (*models.Channel, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := validation.ChannelName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !in.ChannelType.Valid() {
		return nil, models.NewInvalidChannelTypeError(string(in.ChannelType))
	}

	channel := &models.Channel{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		ChannelType: in.ChannelType,
	}
	if err := s.channelRepo.Create(ctx, channel); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", in.CategoryID)
		}
		return nil, err
	}
	return channel, nil
}

func (s *CatalogService) UpdateChannel(ctx context.Context, in UpdateChannelInput) (*models.Channel, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}
	channel, err := s.channelRepo.GetByID(ctx, in.ChannelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Channel", in.ChannelID)
		}
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ChannelName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		channel.Name = name
	}
	if in.Description != nil {
		channel.Description = strings.TrimSpace(*in.Description)
	}
	if in.ChannelType != nil {
		if !in.ChannelType.Valid() {
			return nil, models.NewInvalidChannelTypeError(string(*in.ChannelType))
		}
		channel.ChannelType = *in.ChannelType
	}

	if err := s.channelRepo.Update(ctx, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *CatalogService) ReorderChannels(ctx context.Context, actorID, categoryID uint, orderedIDs []uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if len(orderedIDs) == 0 {
		return models.NewValidationError("Ordered channel IDs are required")
	}
	if err := s.channelRepo.Reorder(ctx, categoryID, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewValidationError("Unknown channel ID in ordering")
		}
		return err
	}
	return nil
}

func (s *CatalogService) DeleteChannel(ctx context.Context, actorID, channelID uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.channelRepo.Delete(ctx, channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Channel", channelID)
		}
		return err
	}
	return nil
}
