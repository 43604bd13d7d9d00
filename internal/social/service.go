// Package social implements the mutations of the network: likes, follows,
// bookmarks, posts, comments and notification bookkeeping. Every mutation
// runs in a single transaction and is idempotent.
package social

import (
	"context"
	"fmt"
	"time"

	"github.com/zfogg/trellis/internal/cache"
	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/metrics"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	unreadCountTTL = time.Minute
	trendsTTL      = 3 * time.Hour
	trendsLimit    = 5
	trendsWindow   = 1000
	whoToFollowMax = 5
)

// Service performs social mutations and queries
type Service struct {
	db       *gorm.DB
	cache    cache.Cache
	notifier Notifier
	events   *telemetry.BusinessEvents
}

// Option configures a Service
type Option func(*Service)

// WithCache caches unread counts and trends. A nil *cache.RedisClient
// leaves caching disabled.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithNotifier pushes created notifications through n
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a social service over db
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:     db,
		cache:  (*cache.RedisClient)(nil),
		events: telemetry.NewBusinessEvents(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutate runs fn in a transaction inside a span and records its outcome.
// fn reports whether it changed anything and the notifications it created.
func (s *Service) mutate(ctx context.Context, action, viewerID, targetID string, fn func(tx *gorm.DB) (bool, []models.Notification, error)) error {
	ctx, span := s.events.TraceSocialInteraction(ctx, action, viewerID, targetID)
	defer span.End()

	var (
		changed bool
		created []models.Notification
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, created, err = fn(tx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		metrics.RecordSocialMutation(action, "error")
		return errors.FromDB(err, "record")
	}

	result := "noop"
	if changed {
		result = "applied"
	}
	metrics.RecordSocialMutation(action, result)
	telemetry.RecordNotification(span, len(created) > 0)

	logger.Log.Debug("social mutation",
		zap.String("action", action),
		logger.WithUserID(viewerID),
		zap.String("target_id", targetID),
		zap.String("result", result),
	)

	s.afterNotify(ctx, created)
	return nil
}

// afterNotify invalidates unread counters and pushes notifications once the
// transaction that created them has committed
func (s *Service) afterNotify(ctx context.Context, created []models.Notification) {
	for _, n := range created {
		metrics.RecordNotification(string(n.Type))
		s.invalidateUnread(ctx, n.RecipientID)
		if s.notifier != nil {
			s.notifier.NotifyUser(ctx, n.RecipientID, n)
		}
	}
}

func (s *Service) invalidateUnread(ctx context.Context, userID string) {
	if err := s.cache.Del(ctx, cache.UnreadCountKey(userID)); err != nil {
		logger.WarnWithFields("Failed to invalidate unread count", err)
	}
}

// loadPost loads postID inside tx or returns NOT_FOUND
func loadPost(tx *gorm.DB, postID string) (*models.Post, error) {
	var post models.Post
	if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, errors.FromDB(err, "post")
	}
	return &post, nil
}

func requireUser(tx *gorm.DB, userID string) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if n == 0 {
		return errors.NotFound("user")
	}
	return nil
}

// insertIgnore creates row unless it already exists and reports whether a
// row was inserted
func insertIgnore(tx *gorm.DB, row interface{}) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
