package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/zfogg/trellis/internal/chat"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/social"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Counts sizes a development seed
type Counts struct {
	Users     int
	Posts     int
	Comments  int
	Follows   int
	Likes     int
	Bookmarks int
}

// DevCounts is the default development data set
func DevCounts() Counts {
	return Counts{
		Users:     50,
		Posts:     400,
		Comments:  600,
		Follows:   300,
		Likes:     1500,
		Bookmarks: 200,
	}
}

var hashtags = []string{"#golang", "#music", "#travel", "#food", "#coffee", "#books", "#photography", "#running", "#gamedev", "#gardening"}

// Seeder handles database seeding operations. Social edges go through the
// social service so seeded data carries the same notifications real
// traffic would.
type Seeder struct {
	db     *gorm.DB
	social *social.Service
	chat   chat.Client
	faker  *gofakeit.Faker
	rng    *rand.Rand
	now    func() time.Time
}

// NewSeeder creates a new seeder instance. Equal seeds produce equal data.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{
		db:     db,
		social: social.NewService(db),
		faker:  gofakeit.New(uint64(seed)),
		rng:    rand.New(rand.NewSource(seed)),
		now:    time.Now,
	}
}

// SetChatClient mirrors seeded users into chat
func (s *Seeder) SetChatClient(c chat.Client) {
	s.chat = c
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev(ctx context.Context, counts Counts) error {
	logger.Log.Info("Creating users...", zap.Int("count", counts.Users))
	users, err := s.seedUsers(ctx, counts.Users)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating posts...", zap.Int("count", counts.Posts))
	posts, err := s.seedPosts(ctx, users, counts.Posts)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating follows...", zap.Int("count", counts.Follows))
	if err := s.seedFollows(ctx, users, counts.Follows); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}

	logger.Log.Info("Creating likes...", zap.Int("count", counts.Likes))
	if err := s.seedLikes(ctx, users, posts, counts.Likes); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("Creating comments...", zap.Int("count", counts.Comments))
	if err := s.seedComments(ctx, users, posts, counts.Comments); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Creating bookmarks...", zap.Int("count", counts.Bookmarks))
	if err := s.seedBookmarks(ctx, users, posts, counts.Bookmarks); err != nil {
		return fmt.Errorf("failed to seed bookmarks: %w", err)
	}

	return nil
}

// SeedTest creates a small fixed cast of users that follow each other in a
// ring, each with a few posts. Running it twice changes nothing.
func (s *Seeder) SeedTest(ctx context.Context) ([]models.User, error) {
	testUsers := []struct {
		username    string
		displayName string
	}{
		{"alice", "Alice Smith"},
		{"bob", "Bob Johnson"},
		{"charlie", "Charlie Brown"},
		{"diana", "Diana Prince"},
		{"eve", "Eve Wilson"},
	}

	db := s.db.WithContext(ctx)
	users := make([]models.User, 0, len(testUsers))
	for _, tu := range testUsers {
		var user models.User
		err := db.Where("username = ?", tu.username).First(&user).Error
		switch {
		case err == nil:
			users = append(users, user)
			continue
		case err != gorm.ErrRecordNotFound:
			return nil, err
		}

		user = models.User{
			Username:    tu.username,
			DisplayName: tu.displayName,
			Bio:         fmt.Sprintf("Test user %s", tu.username),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", tu.username, err)
		}
		s.syncChatUser(ctx, user)

		for i := 0; i < 3; i++ {
			post := models.Post{
				UserID:    user.ID,
				Content:   fmt.Sprintf("Post %d from %s %s", i+1, tu.username, hashtags[i]),
				CreatedAt: s.now().Add(-time.Duration(len(users)*3+i) * time.Hour),
			}
			if err := db.Create(&post).Error; err != nil {
				return nil, fmt.Errorf("failed to create post: %w", err)
			}
		}
		users = append(users, user)
	}

	for i, user := range users {
		next := users[(i+1)%len(users)]
		if _, err := s.social.Follow(ctx, user.ID, next.ID); err != nil {
			return nil, fmt.Errorf("failed to follow: %w", err)
		}
	}

	logger.Log.Info("Seeded test users", zap.Int("count", len(users)))
	return users, nil
}

// Clean removes every row the seeder can create
func (s *Seeder) Clean(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	// Delete in reverse order of dependencies
	for _, table := range []string{"notifications", "bookmarks", "likes", "comments", "follows", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

// Verify counts the rows of every seeded table
func (s *Seeder) Verify(ctx context.Context) (Counts, error) {
	db := s.db.WithContext(ctx)
	var counts Counts
	for _, c := range []struct {
		model interface{}
		dst   *int
	}{
		{&models.User{}, &counts.Users},
		{&models.Post{}, &counts.Posts},
		{&models.Comment{}, &counts.Comments},
		{&models.Follow{}, &counts.Follows},
		{&models.Like{}, &counts.Likes},
		{&models.Bookmark{}, &counts.Bookmarks},
	} {
		var n int64
		if err := db.Model(c.model).Count(&n).Error; err != nil {
			return Counts{}, fmt.Errorf("failed to count: %w", err)
		}
		*c.dst = int(n)
	}
	return counts, nil
}

func (s *Seeder) seedUsers(ctx context.Context, count int) ([]models.User, error) {
	db := s.db.WithContext(ctx)
	users := make([]models.User, 0, count)

	for i := 0; i < count; i++ {
		username := strings.ToLower(fmt.Sprintf("%s%d", s.faker.Username(), i))
		if len(username) > 64 {
			username = username[len(username)-64:]
		}

		user := models.User{
			Username:    username,
			DisplayName: s.faker.Name(),
			Bio:         s.faker.HipsterSentence(),
			AvatarURL:   fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", username),
			CreatedAt:   s.pastTime(365 * 24 * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.syncChatUser(ctx, user)
		users = append(users, user)
	}

	logger.Log.Info("Created seed users", zap.Int("count", len(users)))
	return users, nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	db := s.db.WithContext(ctx)
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		post := models.Post{
			UserID:    users[s.rng.Intn(len(users))].ID,
			Content:   s.postContent(),
			CreatedAt: s.pastTime(30 * 24 * time.Hour),
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedFollows(ctx context.Context, users []models.User, count int) error {
	if len(users) < 2 {
		return nil
	}
	for i := 0; i < count; i++ {
		a, b := s.rng.Intn(len(users)), s.rng.Intn(len(users))
		if a == b {
			continue
		}
		if _, err := s.social.Follow(ctx, users[a].ID, users[b].ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedLikes(ctx context.Context, users []models.User, posts []models.Post, count int) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		user := users[s.rng.Intn(len(users))]
		post := posts[s.rng.Intn(len(posts))]
		if _, err := s.social.Like(ctx, user.ID, post.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedComments(ctx context.Context, users []models.User, posts []models.Post, count int) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	templates := []string{
		"This is great!",
		"Love this",
		"Totally agree",
		"Thanks for sharing",
		"Never thought of it that way",
	}

	for i := 0; i < count; i++ {
		user := users[s.rng.Intn(len(users))]
		post := posts[s.rng.Intn(len(posts))]

		content := s.faker.HipsterSentence()
		if s.rng.Float32() < 0.5 {
			content = templates[s.rng.Intn(len(templates))]
		}
		if _, err := s.social.CreateComment(ctx, user.ID, post.ID, content); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedBookmarks(ctx context.Context, users []models.User, posts []models.Post, count int) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		user := users[s.rng.Intn(len(users))]
		post := posts[s.rng.Intn(len(posts))]
		if _, err := s.social.Bookmark(ctx, user.ID, post.ID); err != nil {
			return err
		}
	}
	return nil
}

// postContent is a sentence followed by up to two hashtags
func (s *Seeder) postContent() string {
	parts := []string{s.faker.HipsterSentence()}
	for n := s.rng.Intn(3); n > 0; n-- {
		parts = append(parts, hashtags[s.rng.Intn(len(hashtags))])
	}
	return strings.Join(parts, " ")
}

// pastTime is a random instant within window before now
func (s *Seeder) pastTime(window time.Duration) time.Time {
	return s.now().Add(-time.Duration(s.rng.Int63n(int64(window)))).UTC()
}

func (s *Seeder) syncChatUser(ctx context.Context, user models.User) {
	if s.chat == nil {
		return
	}
	if err := s.chat.UpsertUser(ctx, user.ID, user.Username); err != nil {
		// Chat might not be reachable from dev machines
		logger.Log.Warn("Failed to sync user to chat",
			zap.String("username", user.Username),
			zap.Error(err))
	}
}
