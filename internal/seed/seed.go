package seed

import (
	"fmt"
	"log"

	"tsudoi/internal/models"
	"tsudoi/internal/policy"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxDays     int
	ShouldClean bool
}

// roleWeights shapes the generated population: mostly regular members, a
// handful of staff, some trial participants.
var roleWeights = []struct {
	role   models.Role
	weight int
}{
	{models.RoleTrial, 15},
	{models.RoleECGMember, 30},
	{models.RoleJCGMember, 25},
	{models.RoleClass1Member, 20},
	{models.RoleECGInstructor, 4},
	{models.RoleJCGInstructor, 4},
	{models.RoleServerAdmin, 2},
}

// Seed populates the database with the built-in catalog plus generated
// members, posts, comments, and likes. Generated activity respects channel
// permissions, so the data looks like real community traffic.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := Catalog(db); err != nil {
		return fmt.Errorf("failed to seed built-in catalog: %w", err)
	}
	log.Println("Built-in catalog seeded")

	factory, err := NewFactory(db, opts.MaxDays)
	if err != nil {
		return err
	}

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	var channels []models.Channel
	if err := db.Find(&channels).Error; err != nil {
		return fmt.Errorf("failed to load channels: %w", err)
	}

	posts, err := createPosts(factory, users, channels, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createEngagement(factory, users, channels, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Println("Database seeding completed")
	log.Printf("All generated accounts use the password: %s", DefaultSeedPassword)
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, posts, channels, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	total := 0
	for _, rw := range roleWeights {
		total += rw.weight
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		pick := factory.rng.Intn(total)
		role := roleWeights[len(roleWeights)-1].role
		for _, rw := range roleWeights {
			if pick < rw.weight {
				role = rw.role
				break
			}
			pick -= rw.weight
		}

		user, err := factory.CreateUser(role)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// postableChannels returns the channels the user's role may write to.
func postableChannels(user *models.User, channels []models.Channel) []*models.Channel {
	var out []*models.Channel
	for i := range channels {
		if policy.CanPost(channels[i].ChannelType, user.Role) {
			out = append(out, &channels[i])
		}
	}
	return out
}

func createPosts(factory *Factory, users []*models.User, channels []models.Channel, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for len(posts) < count {
		user := users[factory.rng.Intn(len(users))]
		targets := postableChannels(user, channels)
		if len(targets) == 0 {
			continue
		}
		channel := targets[factory.rng.Intn(len(targets))]
		posts = append(posts, factory.BuildPost(user, channel))
	}

	const batchSize = 100
	for start := 0; start < len(posts); start += batchSize {
		end := start + batchSize
		if end > len(posts) {
			end = len(posts)
		}
		if err := factory.CreatePostsBatch(posts[start:end]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// createEngagement spreads comments and likes over the generated posts.
// Commenting requires post permission on the channel; liking only requires
// view permission, matching the API rules.
func createEngagement(factory *Factory, users []*models.User, channels []models.Channel, posts []*models.Post) error {
	channelTypes := make(map[uint]models.ChannelType, len(channels))
	for _, ch := range channels {
		channelTypes[ch.ID] = ch.ChannelType
	}

	comments := 0
	likes := 0
	for _, post := range posts {
		channelType := channelTypes[post.ChannelID]

		for i := factory.rng.Intn(4); i > 0; i-- {
			user := users[factory.rng.Intn(len(users))]
			if !policy.CanPost(channelType, user.Role) {
				continue
			}
			if _, err := factory.CreateComment(user, post); err != nil {
				return err
			}
			comments++
		}

		for i := factory.rng.Intn(6); i > 0; i-- {
			user := users[factory.rng.Intn(len(users))]
			if !policy.CanView(channelType, user.Role) {
				continue
			}
			if err := factory.CreateLike(user, post); err != nil {
				return err
			}
			likes++
		}
	}

	log.Printf("%d comments and %d likes created", comments, likes)
	return nil
}
