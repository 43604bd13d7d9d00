package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsEmptyCache(t *testing.T) {
	var rc *RedisClient
	ctx := context.Background()

	assert.False(t, rc.Enabled())

	_, err := rc.GetInt(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	var dst []string
	assert.ErrorIs(t, rc.GetJSON(ctx, "k", &dst), ErrMiss)

	assert.NoError(t, rc.SetEx(ctx, "k", 1, time.Minute))
	assert.NoError(t, rc.SetJSON(ctx, "k", []string{"a"}, time.Minute))
	assert.NoError(t, rc.Del(ctx, "k"))
	assert.NoError(t, rc.Ping(ctx))
	assert.NoError(t, rc.Close())
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("not a url")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "notifications:unread:u1", UnreadCountKey("u1"))
}
