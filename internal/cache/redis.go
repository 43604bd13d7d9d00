package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zfogg/trellis/internal/logger"
	"go.uber.org/zap"
)

// ErrMiss is returned on a cache miss, including when caching is disabled
var ErrMiss = errors.New("cache miss")

// Cache is the key-value surface the services use
type Cache interface {
	Enabled() bool
	GetInt(ctx context.Context, key string) (int64, error)
	SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

var _ Cache = (*RedisClient)(nil)

// RedisClient wraps the redis.Client with centralized connection pooling.
// A nil *RedisClient is valid and behaves as an always-empty cache.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to the Redis server at url
// (redis://[:password@]host:port/db)
func NewRedisClient(url string) (*RedisClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 5
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.DialTimeout = 5 * time.Second

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorWithFields("Failed to connect to Redis", err)
		_ = client.Close()
		return nil, err
	}

	logger.Log.Info("Redis client connected",
		zap.String("address", opts.Addr),
	)

	return &RedisClient{client: client}, nil
}

// Close closes the Redis connection gracefully
func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

// Enabled reports whether a server is attached
func (rc *RedisClient) Enabled() bool {
	return rc != nil && rc.client != nil
}

// GetInt retrieves an integer value
func (rc *RedisClient) GetInt(ctx context.Context, key string) (int64, error) {
	if !rc.Enabled() {
		return 0, ErrMiss
	}
	n, err := rc.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrMiss
	}
	return n, err
}

// SetEx stores a value with expiration
func (rc *RedisClient) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !rc.Enabled() {
		return nil
	}
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// GetJSON decodes the JSON value stored at key into dst
func (rc *RedisClient) GetJSON(ctx context.Context, key string, dst interface{}) error {
	if !rc.Enabled() {
		return ErrMiss
	}
	raw, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// SetJSON stores value as JSON with expiration
func (rc *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !rc.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rc.client.Set(ctx, key, raw, ttl).Err()
}

// Del deletes one or more keys
func (rc *RedisClient) Del(ctx context.Context, keys ...string) error {
	if !rc.Enabled() || len(keys) == 0 {
		return nil
	}
	return rc.client.Del(ctx, keys...).Err()
}

// Ping checks connectivity
func (rc *RedisClient) Ping(ctx context.Context) error {
	if !rc.Enabled() {
		return nil
	}
	return rc.client.Ping(ctx).Err()
}

// Cache keys

func UnreadCountKey(userID string) string {
	return "notifications:unread:" + userID
}

const TrendingTopicsKey = "trends:topics"
