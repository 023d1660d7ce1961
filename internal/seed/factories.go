package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"tsudoi/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSeedPassword is the plaintext password shared by generated accounts.
const DefaultSeedPassword = "Seeded#Password1"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db       *gorm.DB
	rng      *rand.Rand
	maxDays  int
	password string
}

// NewFactory creates a Factory bound to the provided Gorm DB. Generated
// timestamps are spread over the past maxDays days.
func NewFactory(db *gorm.DB, maxDays int) (*Factory, error) {
	if maxDays <= 0 {
		maxDays = 90
	}
	gofakeit.Seed(time.Now().UnixNano())

	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultSeedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{
		db:       db,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		maxDays:  maxDays,
		password: string(hashed),
	}, nil
}

// pastTime returns a timestamp spread over the factory's backfill window.
func (f *Factory) pastTime() time.Time {
	daysBack := f.rng.Intn(f.maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample user with the given role.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(role models.Role, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: f.password,
		Role:     role,
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	user.CreatedAt = f.pastTime()

	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create seed user: %w", err)
	}
	return user, nil
}

// BuildPost constructs a post without persisting it. Useful for batching.
func (f *Factory) BuildPost(user *models.User, channel *models.Channel) *models.Post {
	post := &models.Post{
		Content:   gofakeit.Paragraph(1, 3, 6, "\n"),
		UserID:    user.ID,
		ChannelID: channel.ID,
	}
	// roughly one post in five carries an image
	if f.rng.Intn(5) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}
	post.CreatedAt = f.pastTime()
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment persists a generated comment on the given post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(f.rng.Intn(12) + 3),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	if comment.CreatedAt = f.pastTime(); comment.CreatedAt.Before(post.CreatedAt) {
		comment.CreatedAt = post.CreatedAt.Add(time.Duration(f.rng.Intn(600)+1) * time.Minute)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create seed comment: %w", err)
	}
	return comment, nil
}

// CreateLike records a like, silently skipping duplicates.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	err := f.db.Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
