package social

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/zfogg/trellis/internal/cache"
	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/metrics"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/util"
)

const trendsCacheName = "trends"

// TrendingTopics returns the most used hashtags over the most recent posts.
// Results are cached for a few hours.
func (s *Service) TrendingTopics(ctx context.Context) ([]Trend, error) {
	var cached []Trend
	err := s.cache.GetJSON(ctx, cache.TrendingTopicsKey, &cached)
	switch {
	case err == nil:
		metrics.RecordCacheHit(trendsCacheName)
		return cached, nil
	case !stderrors.Is(err, cache.ErrMiss):
		logger.WarnWithFields("Failed to read trends from cache", err)
	case s.cache.Enabled():
		metrics.RecordCacheMiss(trendsCacheName)
	}

	var contents []string
	err = s.db.WithContext(ctx).
		Model(&models.Post{}).
		Order("created_at DESC, id DESC").
		Limit(trendsWindow).
		Pluck("content", &contents).Error
	if err != nil {
		return nil, errors.Infrastructure("failed to load posts", err)
	}

	trends := countHashtags(contents, trendsLimit)
	if err := s.cache.SetJSON(ctx, cache.TrendingTopicsKey, trends, trendsTTL); err != nil {
		logger.WarnWithFields("Failed to cache trends", err)
	}
	return trends, nil
}

// countHashtags counts each hashtag once per post and returns the top limit,
// ties broken alphabetically
func countHashtags(contents []string, limit int) []Trend {
	counts := make(map[string]int)
	for _, content := range contents {
		for _, tag := range util.ExtractHashtags(content) {
			counts[tag]++
		}
	}

	trends := make([]Trend, 0, len(counts))
	for tag, n := range counts {
		trends = append(trends, Trend{Hashtag: tag, Count: n})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Count != trends[j].Count {
			return trends[i].Count > trends[j].Count
		}
		return trends[i].Hashtag < trends[j].Hashtag
	})

	if len(trends) > limit {
		trends = trends[:limit]
	}
	return trends
}
