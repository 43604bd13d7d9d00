package social

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/trellis/internal/cache"
	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/testutil"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *recordingNotifier) NotifyUser(ctx context.Context, userID string, n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// memoryCache is a map-backed cache.Cache that ignores expiry
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (m *memoryCache) Enabled() bool { return true }

func (m *memoryCache) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memoryCache) set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *memoryCache) GetInt(ctx context.Context, key string) (int64, error) {
	v, ok := m.get(key)
	if !ok {
		return 0, cache.ErrMiss
	}
	return strconv.ParseInt(v, 10, 64)
}

func (m *memoryCache) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.set(key, fmt.Sprint(value))
	return nil
}

func (m *memoryCache) GetJSON(ctx context.Context, key string, dst interface{}) error {
	v, ok := m.get(key)
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal([]byte(v), dst)
}

func (m *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.set(key, string(raw))
	return nil
}

func (m *memoryCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// SocialServiceTestSuite exercises the mutations against an in-memory store
type SocialServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *Service
	notifier *recordingNotifier
	ctx      context.Context

	alice *models.User
	bob   *models.User
	post  *models.Post // authored by bob
}

func TestSocialServiceSuite(t *testing.T) {
	suite.Run(t, new(SocialServiceTestSuite))
}

func (s *SocialServiceTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.notifier = &recordingNotifier{}
	s.service = NewService(s.db, WithNotifier(s.notifier))
	s.ctx = context.Background()

	s.alice = testutil.CreateUser(s.T(), s.db, "alice")
	s.bob = testutil.CreateUser(s.T(), s.db, "bob")
	s.post = testutil.CreatePost(s.T(), s.db, s.bob.ID, "hello #go", 0)
}

func (s *SocialServiceTestSuite) notifications(recipientID string, typ models.NotificationType) int64 {
	var n int64
	s.Require().NoError(s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, typ).Count(&n).Error)
	return n
}

func (s *SocialServiceTestSuite) TestLikeUnlikeLikeReturnsToSameCount() {
	before, err := s.service.LikeInfo(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	s.Equal(LikeInfo{Likes: 0, IsLikedByUser: false}, before)

	info, err := s.service.Like(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	s.Equal(LikeInfo{Likes: 1, IsLikedByUser: true}, info)

	info, err = s.service.Unlike(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	s.Equal(before, info)

	info, err = s.service.Like(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	s.Equal(LikeInfo{Likes: 1, IsLikedByUser: true}, info)
}

func (s *SocialServiceTestSuite) TestLikeIsIdempotent() {
	for i := 0; i < 3; i++ {
		info, err := s.service.Like(s.ctx, s.alice.ID, s.post.ID)
		s.Require().NoError(err)
		s.Equal(int64(1), info.Likes)
	}
	s.Equal(int64(1), s.notifications(s.bob.ID, models.NotificationLike))
	s.Equal(1, s.notifier.count())

	for i := 0; i < 2; i++ {
		info, err := s.service.Unlike(s.ctx, s.alice.ID, s.post.ID)
		s.Require().NoError(err)
		s.Zero(info.Likes)
	}
	s.Zero(s.notifications(s.bob.ID, models.NotificationLike))
}

func (s *SocialServiceTestSuite) TestSelfLikeCreatesNoNotification() {
	info, err := s.service.Like(s.ctx, s.bob.ID, s.post.ID)
	s.Require().NoError(err)
	s.True(info.IsLikedByUser)
	s.Zero(s.notifications(s.bob.ID, models.NotificationLike))
	s.Zero(s.notifier.count())
}

func (s *SocialServiceTestSuite) TestLikeMissingPost() {
	_, err := s.service.Like(s.ctx, s.alice.ID, uuid.New().String())
	s.True(errors.IsCode(err, errors.ErrNotFound))

	_, err = s.service.LikeInfo(s.ctx, s.alice.ID, uuid.New().String())
	s.True(errors.IsCode(err, errors.ErrNotFound))
}

func (s *SocialServiceTestSuite) TestFollowUnfollow() {
	info, err := s.service.Follow(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(FollowerInfo{Followers: 1, IsFollowedByUser: true}, info)
	s.Equal(int64(1), s.notifications(s.bob.ID, models.NotificationFollow))

	// Second follow is a no-op
	info, err = s.service.Follow(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), info.Followers)
	s.Equal(int64(1), s.notifications(s.bob.ID, models.NotificationFollow))

	info, err = s.service.Unfollow(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(FollowerInfo{Followers: 0, IsFollowedByUser: false}, info)
	s.Zero(s.notifications(s.bob.ID, models.NotificationFollow))
}

func (s *SocialServiceTestSuite) TestFollowValidation() {
	_, err := s.service.Follow(s.ctx, s.alice.ID, s.alice.ID)
	s.True(errors.IsCode(err, errors.ErrValidation))

	_, err = s.service.Follow(s.ctx, s.alice.ID, uuid.New().String())
	s.True(errors.IsCode(err, errors.ErrNotFound))

	_, err = s.service.FollowerInfo(s.ctx, s.alice.ID, uuid.New().String())
	s.True(errors.IsCode(err, errors.ErrNotFound))
}

func (s *SocialServiceTestSuite) TestBookmarkToggle() {
	info, err := s.service.BookmarkInfo(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	s.False(info.IsBookmarkedByUser)

	for i := 0; i < 2; i++ {
		info, err = s.service.Bookmark(s.ctx, s.alice.ID, s.post.ID)
		s.Require().NoError(err)
		s.True(info.IsBookmarkedByUser)
	}

	var n int64
	s.Require().NoError(s.db.Model(&models.Bookmark{}).Where("user_id = ?", s.alice.ID).Count(&n).Error)
	s.Equal(int64(1), n)

	info, err = s.service.Unbookmark(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	s.False(info.IsBookmarkedByUser)

	info, err = s.service.BookmarkInfo(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	s.False(info.IsBookmarkedByUser)

	_, err = s.service.Bookmark(s.ctx, s.alice.ID, uuid.New().String())
	s.True(errors.IsCode(err, errors.ErrNotFound))
}

func (s *SocialServiceTestSuite) TestCreateAndDeletePost() {
	post, err := s.service.CreatePost(s.ctx, s.alice.ID, "  first post  ")
	s.Require().NoError(err)
	s.Equal("first post", post.Content)
	s.NotEmpty(post.ID)

	_, err = s.service.CreatePost(s.ctx, s.alice.ID, "   ")
	s.True(errors.IsCode(err, errors.ErrValidation))

	_, err = s.service.CreatePost(s.ctx, s.alice.ID, strings.Repeat("x", 2001))
	s.True(errors.IsCode(err, errors.ErrValidation))

	// Only the author can delete
	err = s.service.DeletePost(s.ctx, s.bob.ID, post.ID)
	s.True(errors.IsCode(err, errors.ErrForbidden))

	_, err = s.service.Like(s.ctx, s.bob.ID, post.ID)
	s.Require().NoError(err)
	_, err = s.service.CreateComment(s.ctx, s.bob.ID, post.ID, "nice")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeletePost(s.ctx, s.alice.ID, post.ID))

	var remaining int64
	s.Require().NoError(s.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&remaining).Error)
	s.Zero(remaining)
	s.Require().NoError(s.db.Model(&models.Notification{}).Where("post_id = ?", post.ID).Count(&remaining).Error)
	s.Zero(remaining)

	err = s.service.DeletePost(s.ctx, s.alice.ID, post.ID)
	s.True(errors.IsCode(err, errors.ErrNotFound))
}

func (s *SocialServiceTestSuite) TestComments() {
	comment, err := s.service.CreateComment(s.ctx, s.alice.ID, s.post.ID, "great post")
	s.Require().NoError(err)
	s.Equal("alice", comment.User.Username)
	s.Equal(int64(1), s.notifications(s.bob.ID, models.NotificationComment))

	// Commenting on your own post does not notify
	_, err = s.service.CreateComment(s.ctx, s.bob.ID, s.post.ID, "thanks")
	s.Require().NoError(err)
	s.Equal(int64(1), s.notifications(s.bob.ID, models.NotificationComment))

	err = s.service.DeleteComment(s.ctx, s.bob.ID, comment.ID)
	s.True(errors.IsCode(err, errors.ErrForbidden))

	s.Require().NoError(s.service.DeleteComment(s.ctx, s.alice.ID, comment.ID))
	err = s.service.DeleteComment(s.ctx, s.alice.ID, comment.ID)
	s.True(errors.IsCode(err, errors.ErrNotFound))

	_, err = s.service.CreateComment(s.ctx, s.alice.ID, uuid.New().String(), "lost")
	s.True(errors.IsCode(err, errors.ErrNotFound))
}

func (s *SocialServiceTestSuite) TestUnreadCountAndMarkAllRead() {
	_, err := s.service.Like(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	_, err = s.service.Follow(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)

	n, err := s.service.UnreadCount(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	changed, err := s.service.MarkAllRead(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), changed)

	n, err = s.service.UnreadCount(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *SocialServiceTestSuite) TestCachedUnreadCountFollowsMutations() {
	svc := NewService(s.db, WithCache(newMemoryCache()))

	_, err := svc.Like(s.ctx, s.alice.ID, s.post.ID)
	s.Require().NoError(err)
	_, err = svc.CreateComment(s.ctx, s.alice.ID, s.post.ID, "nice")
	s.Require().NoError(err)

	n, err := svc.UnreadCount(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	// Each new notification drops the cached count
	_, err = svc.Follow(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)
	n, err = svc.UnreadCount(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	// Deleting the post removes the like and comment notifications
	s.Require().NoError(svc.DeletePost(s.ctx, s.bob.ID, s.post.ID))
	n, err = svc.UnreadCount(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	_, err = svc.Unfollow(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)
	n, err = svc.UnreadCount(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Zero(n)
}

func TestWithNilCacheLeavesCachingDisabled(t *testing.T) {
	var rc *cache.RedisClient
	svc := NewService(testutil.NewDB(t), WithCache(rc))
	assert.False(t, svc.cache.Enabled())

	svc = NewService(testutil.NewDB(t), WithCache(nil))
	assert.False(t, svc.cache.Enabled())
}

func (s *SocialServiceTestSuite) TestUserByUsername() {
	testutil.CreatePost(s.T(), s.db, s.bob.ID, "second", time.Minute)
	_, err := s.service.Follow(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)

	profile, err := s.service.UserByUsername(s.ctx, s.alice.ID, "BOB")
	s.Require().NoError(err)
	s.Equal(s.bob.ID, profile.ID)
	s.Equal(int64(2), profile.Posts)
	s.Zero(profile.Following)
	s.Equal(FollowerInfo{Followers: 1, IsFollowedByUser: true}, profile.FollowState)

	_, err = s.service.UserByUsername(s.ctx, s.alice.ID, "nobody")
	s.True(errors.IsCode(err, errors.ErrNotFound))
}

func (s *SocialServiceTestSuite) TestWhoToFollow() {
	for _, name := range []string{"c1", "c2", "c3", "c4", "c5", "c6"} {
		testutil.CreateUser(s.T(), s.db, name)
	}
	_, err := s.service.Follow(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)

	users, err := s.service.WhoToFollow(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Len(users, 5)
	for _, u := range users {
		s.NotEqual(s.alice.ID, u.ID)
		s.NotEqual(s.bob.ID, u.ID)
	}
}

func (s *SocialServiceTestSuite) TestTrendingTopics() {
	testutil.CreatePost(s.T(), s.db, s.alice.ID, "more #Go and #gorm", time.Minute)
	testutil.CreatePost(s.T(), s.db, s.alice.ID, "#gorm #gorm twice in one post", 2*time.Minute)

	trends, err := s.service.TrendingTopics(s.ctx)
	s.Require().NoError(err)
	s.Equal([]Trend{{Hashtag: "#go", Count: 2}, {Hashtag: "#gorm", Count: 2}}, trends)
}

func TestCountHashtagsLimit(t *testing.T) {
	contents := []string{"#a #b #c", "#a #b", "#a", "#d #e #f"}
	trends := countHashtags(contents, 3)
	assert.Equal(t, []Trend{{"#a", 3}, {"#b", 2}, {"#c", 1}}, trends)
}
