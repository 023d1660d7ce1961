package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tsudoi/internal/config"
	"tsudoi/internal/database"
	"tsudoi/internal/models"
	"tsudoi/internal/repository"
	"tsudoi/internal/service"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// newTestServer wires a Server against an in-memory database without Redis,
// metrics, or the notifier.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db := setupHandlerTestDB(t)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config: &config.Config{
			JWTSecret: "handler-test-secret-not-for-production",
		},
		db:           db,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		channelRepo:  channelRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
	}
	s.catalogService = service.NewCatalogService(categoryRepo, channelRepo, s.roleByUserID)
	s.postService = service.NewPostService(postRepo, channelRepo, s.roleByUserID, nil)
	s.commentService = service.NewCommentService(commentRepo, postRepo, channelRepo, s.roleByUserID)
	s.userService = service.NewUserService(userRepo)

	return s, db
}

// newTestApp mounts the full route table behind a middleware that stamps the
// given user onto every request, standing in for AuthRequired.
func newTestApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	})

	api := app.Group("/api")
	api.Get("/catalog", s.GetCatalog)

	channels := api.Group("/channels")
	channels.Get("/:id/posts", s.GetChannelPosts)
	channels.Post("/:id/posts", s.CreatePost)
	channels.Get("/:id", s.GetChannel)

	posts := api.Group("/posts")
	posts.Post("/:id/like", s.ToggleLike)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", s.CreateComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	api.Delete("/comments/:id", s.DeleteComment)

	users := api.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id", s.GetUserProfile)

	admin := api.Group("/admin")
	admin.Get("/users", s.GetAllUsers)
	admin.Put("/users/:id/role", s.UpdateUserRole)
	admin.Post("/categories", s.CreateCategory)
	admin.Put("/categories/reorder", s.ReorderCategories)
	admin.Put("/categories/:id/collapse", s.SetCategoryCollapsed)
	admin.Put("/categories/:id/channels/reorder", s.ReorderChannels)
	admin.Post("/categories/:id/channels", s.CreateChannel)
	admin.Put("/categories/:id", s.RenameCategory)
	admin.Delete("/categories/:id", s.DeleteCategory)
	admin.Put("/channels/:id", s.UpdateChannel)
	admin.Delete("/channels/:id", s.DeleteChannel)

	return app
}

func createHandlerTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("CorrectHorse#99x"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func jsonRequest(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCatalogAdminFlow(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := createHandlerTestUser(t, db, "catalog_admin", models.RoleServerAdmin)
	app := newTestApp(s, admin.ID)

	resp := jsonRequest(t, app, http.MethodPost, "/api/admin/categories",
		fiber.Map{"name": "一般"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d", resp.StatusCode)
	}
	var category models.Category
	decodeJSON(t, resp, &category)
	if category.ID == 0 {
		t.Fatal("expected category ID to be assigned")
	}

	resp = jsonRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/admin/categories/%d/channels", category.ID),
		fiber.Map{
			"name":         "雑談",
			"channel_type": string(models.ChannelTypeAllPostAllView),
		})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create channel: expected 201, got %d", resp.StatusCode)
	}
	var channel models.Channel
	decodeJSON(t, resp, &channel)

	// The category now owns a channel, so deleting it must be rejected.
	resp = jsonRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/admin/categories/%d", category.ID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("delete non-empty category: expected 409, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = jsonRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/admin/channels/%d", channel.ID), nil)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete channel: expected success, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = jsonRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/admin/categories/%d", category.ID), nil)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete empty category: expected success, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestCatalogVisibilityPerRole(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := createHandlerTestUser(t, db, "visibility_admin", models.RoleServerAdmin)
	trial := createHandlerTestUser(t, db, "visibility_trial", models.RoleTrial)

	category := models.Category{Name: "クラス"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	open := models.Channel{Name: "案内", CategoryID: category.ID, ChannelType: models.ChannelTypeAllPostAllView}
	staff := models.Channel{Name: "講師連絡", CategoryID: category.ID, ChannelType: models.ChannelTypeAdminOnlyInstructorsView, DisplayOrder: 1}
	if err := db.Create(&open).Error; err != nil {
		t.Fatalf("create open channel: %v", err)
	}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("create staff channel: %v", err)
	}

	adminApp := newTestApp(s, admin.ID)
	resp := jsonRequest(t, adminApp, http.MethodGet, "/api/catalog", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin catalog: expected 200, got %d", resp.StatusCode)
	}
	var adminCatalog []models.Category
	decodeJSON(t, resp, &adminCatalog)
	if len(adminCatalog) != 1 || len(adminCatalog[0].Channels) != 2 {
		t.Fatalf("admin should see both channels, got %+v", adminCatalog)
	}

	trialApp := newTestApp(s, trial.ID)
	resp = jsonRequest(t, trialApp, http.MethodGet, "/api/catalog", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trial catalog: expected 200, got %d", resp.StatusCode)
	}
	var trialCatalog []models.Category
	decodeJSON(t, resp, &trialCatalog)
	if len(trialCatalog) != 1 || len(trialCatalog[0].Channels) != 1 {
		t.Fatalf("trial should see one channel, got %+v", trialCatalog)
	}
	if trialCatalog[0].Channels[0].ID != open.ID {
		t.Fatalf("trial should see the open channel, got %d", trialCatalog[0].Channels[0].ID)
	}

	// Direct fetch of the hidden channel is forbidden, not invisible-404.
	resp = jsonRequest(t, trialApp, http.MethodGet,
		fmt.Sprintf("/api/channels/%d", staff.ID), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("trial fetching staff channel: expected 403, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestPostLifecycleThroughHandlers(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	member := createHandlerTestUser(t, db, "poster_member", models.RoleECGMember)
	trial := createHandlerTestUser(t, db, "poster_trial", models.RoleTrial)

	category := models.Category{Name: "投稿テスト"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	channel := models.Channel{Name: "自由投稿", CategoryID: category.ID, ChannelType: models.ChannelTypeAllPostAllView}
	if err := db.Create(&channel).Error; err != nil {
		t.Fatalf("create channel: %v", err)
	}

	memberApp := newTestApp(s, member.ID)
	trialApp := newTestApp(s, trial.ID)

	resp := jsonRequest(t, trialApp, http.MethodPost,
		fmt.Sprintf("/api/channels/%d/posts", channel.ID),
		fiber.Map{"content": "trial post"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("trial posting: expected 403, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = jsonRequest(t, memberApp, http.MethodPost,
		fmt.Sprintf("/api/channels/%d/posts", channel.ID),
		fiber.Map{"content": "今日のレッスンはどうでしたか？"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("member posting: expected 201, got %d", resp.StatusCode)
	}
	var post models.Post
	decodeJSON(t, resp, &post)
	if post.ID == 0 {
		t.Fatal("expected post ID to be assigned")
	}

	// A trial member may read and like what they can see.
	resp = jsonRequest(t, trialApp, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/like", post.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trial liking: expected 200, got %d", resp.StatusCode)
	}
	var liked models.Post
	decodeJSON(t, resp, &liked)
	if liked.LikeCount != 1 {
		t.Fatalf("expected like count 1, got %d", liked.LikeCount)
	}
	if !liked.UserLiked {
		t.Fatal("expected user_liked true for the liker")
	}

	resp = jsonRequest(t, memberApp, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/comments", post.ID),
		fiber.Map{"content": "楽しかったです！"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("member commenting: expected 201, got %d", resp.StatusCode)
	}
	var comment models.Comment
	decodeJSON(t, resp, &comment)

	resp = jsonRequest(t, memberApp, http.MethodGet,
		fmt.Sprintf("/api/posts/%d", post.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get post: expected 200, got %d", resp.StatusCode)
	}
	var fetched models.Post
	decodeJSON(t, resp, &fetched)
	if fetched.CommentCount != 1 {
		t.Fatalf("expected comment count 1, got %d", fetched.CommentCount)
	}

	// Trial cannot comment even where it can read.
	resp = jsonRequest(t, trialApp, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/comments", post.ID),
		fiber.Map{"content": "trial comment"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("trial commenting: expected 403, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = jsonRequest(t, trialApp, http.MethodDelete,
		fmt.Sprintf("/api/posts/%d", post.ID), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner delete: expected 403, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = jsonRequest(t, memberApp, http.MethodDelete,
		fmt.Sprintf("/api/posts/%d", post.ID), nil)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		t.Fatalf("owner delete: expected success, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = jsonRequest(t, memberApp, http.MethodGet,
		fmt.Sprintf("/api/posts/%d", post.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted post fetch: expected 404, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestUpdateUserRoleHandler(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := createHandlerTestUser(t, db, "role_admin", models.RoleServerAdmin)
	member := createHandlerTestUser(t, db, "role_member", models.RoleTrial)

	adminApp := newTestApp(s, admin.ID)
	resp := jsonRequest(t, adminApp, http.MethodPut,
		fmt.Sprintf("/api/admin/users/%d/role", member.ID),
		fiber.Map{"role": string(models.RoleClass1Member)})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin role update: expected 200, got %d", resp.StatusCode)
	}
	var updated models.User
	decodeJSON(t, resp, &updated)
	if updated.Role != models.RoleClass1Member {
		t.Fatalf("expected role %s, got %s", models.RoleClass1Member, updated.Role)
	}

	resp = jsonRequest(t, adminApp, http.MethodPut,
		fmt.Sprintf("/api/admin/users/%d/role", member.ID),
		fiber.Map{"role": "super_admin"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown role: expected 400, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	memberApp := newTestApp(s, member.ID)
	resp = jsonRequest(t, memberApp, http.MethodPut,
		fmt.Sprintf("/api/admin/users/%d/role", admin.ID),
		fiber.Map{"role": string(models.RoleTrial)})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin role update: expected 403, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestProfileHandlers(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	member := createHandlerTestUser(t, db, "profile_member", models.RoleJCGMember)
	app := newTestApp(s, member.ID)

	resp := jsonRequest(t, app, http.MethodGet, "/api/users/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get own profile: expected 200, got %d", resp.StatusCode)
	}
	var me models.User
	decodeJSON(t, resp, &me)
	if me.ID != member.ID || me.Username != "profile_member" {
		t.Fatalf("unexpected profile: %+v", me)
	}

	resp = jsonRequest(t, app, http.MethodGet, "/api/users/9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown profile: expected 404, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}
