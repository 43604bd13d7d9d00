package social

import (
	"context"
	stderrors "errors"

	"github.com/zfogg/trellis/internal/cache"
	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/metrics"
	"github.com/zfogg/trellis/internal/models"
)

const unreadCacheName = "unread_count"

// UnreadCount returns the number of unread notifications of the viewer
func (s *Service) UnreadCount(ctx context.Context, viewerID string) (int64, error) {
	key := cache.UnreadCountKey(viewerID)
	if n, err := s.cache.GetInt(ctx, key); err == nil {
		metrics.RecordCacheHit(unreadCacheName)
		return n, nil
	} else if !stderrors.Is(err, cache.ErrMiss) {
		logger.WarnWithFields("Failed to read unread count from cache", err)
	}
	if s.cache.Enabled() {
		metrics.RecordCacheMiss(unreadCacheName)
	}

	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", viewerID, false).
		Count(&n).Error
	if err != nil {
		return 0, errors.Infrastructure("failed to count notifications", err)
	}

	if err := s.cache.SetEx(ctx, key, n, unreadCountTTL); err != nil {
		logger.WarnWithFields("Failed to cache unread count", err)
	}
	return n, nil
}

// MarkAllRead marks every notification of the viewer as read and returns
// how many changed
func (s *Service) MarkAllRead(ctx context.Context, viewerID string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", viewerID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, errors.Infrastructure("failed to mark notifications as read", res.Error)
	}

	s.invalidateUnread(ctx, viewerID)
	return res.RowsAffected, nil
}
