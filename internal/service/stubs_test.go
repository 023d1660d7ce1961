package service

import (
	"context"

	"tsudoi/internal/models"
)

// Function-field stubs for the repository interfaces. Unset fields panic on
// call, which is the desired failure mode for "must not be reached" paths.

type categoryRepoStub struct {
	listFn         func(context.Context) ([]*models.Category, error)
	getByIDFn      func(context.Context, uint) (*models.Category, error)
	createFn       func(context.Context, *models.Category) error
	renameFn       func(context.Context, uint, string) error
	setCollapsedFn func(context.Context, uint, bool) error
	reorderFn      func(context.Context, []uint) error
	deleteFn       func(context.Context, uint) error
}

func (s *categoryRepoStub) List(ctx context.Context) ([]*models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) Rename(ctx context.Context, id uint, name string) error {
	return s.renameFn(ctx, id, name)
}
func (s *categoryRepoStub) SetCollapsed(ctx context.Context, id uint, collapsed bool) error {
	return s.setCollapsedFn(ctx, id, collapsed)
}
func (s *categoryRepoStub) Reorder(ctx context.Context, orderedIDs []uint) error {
	return s.reorderFn(ctx, orderedIDs)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type channelRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.Channel, error)
	listByCategoryFn func(context.Context, uint) ([]*models.Channel, error)
	createFn         func(context.Context, *models.Channel) error
	updateFn         func(context.Context, *models.Channel) error
	reorderFn        func(context.Context, uint, []uint) error
	deleteFn         func(context.Context, uint) error
}

func (s *channelRepoStub) GetByID(ctx context.Context, id uint) (*models.Channel, error) {
	return s.getByIDFn(ctx, id)
}
func (s *channelRepoStub) ListByCategory(ctx context.Context, categoryID uint) ([]*models.Channel, error) {
	return s.listByCategoryFn(ctx, categoryID)
}
func (s *channelRepoStub) Create(ctx context.Context, channel *models.Channel) error {
	return s.createFn(ctx, channel)
}
func (s *channelRepoStub) Update(ctx context.Context, channel *models.Channel) error {
	return s.updateFn(ctx, channel)
}
func (s *channelRepoStub) Reorder(ctx context.Context, categoryID uint, orderedIDs []uint) error {
	return s.reorderFn(ctx, categoryID, orderedIDs)
}
func (s *channelRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint, uint) (*models.Post, error)
	listByChannelFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listByUserFn    func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	deleteFn        func(context.Context, uint) error
	isLikedFn       func(context.Context, uint, uint) (bool, error)
	likeFn          func(context.Context, uint, uint) error
	unlikeFn        func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) ListByChannel(ctx context.Context, channelID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByChannelFn(ctx, channelID, limit, offset, currentUserID)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByUserFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	updateRoleFn    func(context.Context, uint, models.Role) error
	roleOfFn        func(context.Context, uint) (models.Role, error)
	countByRoleFn   func(context.Context, models.Role) (int64, error)
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) RoleOf(ctx context.Context, id uint) (models.Role, error) {
	return s.roleOfFn(ctx, id)
}
func (s *userRepoStub) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return s.countByRoleFn(ctx, role)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

// fixedRole returns a roleOf callback that answers the same role for every
// user ID.
func fixedRole(role models.Role) func(context.Context, uint) (models.Role, error) {
	return func(context.Context, uint) (models.Role, error) {
		return role, nil
	}
}
