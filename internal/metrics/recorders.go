package metrics

import (
	"strconv"
	"time"
)

// RecordFeedPage records one served feed page
func RecordFeedPage(feedType string, duration time.Duration, items int, hasMore bool) {
	m := Get()
	m.FeedPageDuration.WithLabelValues(feedType).Observe(duration.Seconds())
	m.FeedPageItems.WithLabelValues(feedType).Observe(float64(items))
	m.FeedPagesTotal.WithLabelValues(feedType, strconv.FormatBool(hasMore)).Inc()
}

// RecordSocialMutation records a like/follow/bookmark mutation.
// result is "applied", "noop" or "error".
func RecordSocialMutation(action, result string) {
	Get().SocialMutationsTotal.WithLabelValues(action, result).Inc()
}

func RecordNotification(notificationType string) {
	Get().NotificationsCreated.WithLabelValues(notificationType).Inc()
}

func RecordCacheHit(cacheName string) {
	Get().CacheHitsTotal.WithLabelValues(cacheName).Inc()
}

func RecordCacheMiss(cacheName string) {
	Get().CacheMissesTotal.WithLabelValues(cacheName).Inc()
}

// RecordError records an API error by code
func RecordError(errorCode, endpoint string) {
	Get().ErrorsTotal.WithLabelValues(errorCode, endpoint).Inc()
}

// RecordWebSocketPush records a message delivered to a WebSocket client
func RecordWebSocketPush(messageType string) {
	Get().WebSocketPushesTotal.WithLabelValues(messageType).Inc()
}
