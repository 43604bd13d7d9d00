// Package testutil provides an in-memory store and fixtures for tests
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zfogg/trellis/internal/config"
	"github.com/zfogg/trellis/internal/database"
	"github.com/zfogg/trellis/internal/models"
	"gorm.io/gorm"
)

// BaseTime is the creation time of the first fixture row
var BaseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewDB opens a migrated in-memory sqlite database closed at test cleanup
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.Config{
		Environment:    "test",
		DatabaseDriver: "sqlite",
		DatabaseURL:    ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a user named username
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		DisplayName: fmt.Sprintf("User %s", username),
		CreatedAt:   BaseTime,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post created at BaseTime plus offset
func CreatePost(t testing.TB, db *gorm.DB, userID, content string, offset time.Duration) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    userID,
		Content:   content,
		CreatedAt: BaseTime.Add(offset),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CreatePosts inserts n posts by userID, newest last, one minute apart.
// The returned slice is ordered newest first, the way feeds return them.
func CreatePosts(t testing.TB, db *gorm.DB, userID string, n int) []*models.Post {
	t.Helper()
	posts := make([]*models.Post, n)
	for i := 0; i < n; i++ {
		posts[n-1-i] = CreatePost(t, db, userID, fmt.Sprintf("post %d", i), time.Duration(i)*time.Minute)
	}
	return posts
}
