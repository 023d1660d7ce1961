package service

import (
	"context"
	"errors"

	"tsudoi/internal/models"
	"tsudoi/internal/repository"

	"gorm.io/gorm"
)

// UserService handles member profiles and role administration.
type UserService struct {
	userRepo repository.UserRepository
}

type UpdateRoleInput struct {
	ActorID uint
	UserID  uint
	Role    models.Role
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateRole assigns one of the fixed community roles. Roles form a closed
// enumeration; anything outside it is rejected before touching the database.
func (s *UserService) UpdateRole(ctx context.Context, in UpdateRoleInput) (*models.User, error) {
	actorRole, err := s.userRepo.RoleOf(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	if !actorRole.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator role required")
	}

	if !in.Role.Valid() {
		return nil, models.NewValidationError("Unknown role: " + string(in.Role))
	}
	if in.ActorID == in.UserID && !in.Role.IsAdmin() {
		// The last admin locking themselves out is unrecoverable without
		// database surgery.
		admins, err := s.userRepo.CountByRole(ctx, models.RoleServerAdmin)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, models.NewValidationError("The last administrator cannot demote themselves")
		}
	}

	if err := s.userRepo.UpdateRole(ctx, in.UserID, in.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.UserID)
		}
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID)
}
