package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/trellis/internal/auth"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/util"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.GetString(util.ContextUserIDKey),
			"request_id": RequestID(c),
		})
	})
	return router
}

func get(router http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	mock := auth.NewMockAuthService()
	mock.AddUser("good-token", &models.User{ID: "user-1", Username: "ada"})
	router := newRouter(AuthMiddleware(mock))

	t.Run("valid bearer token", func(t *testing.T) {
		w := get(router, http.Header{"Authorization": {"Bearer good-token"}})
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["user_id"])
	})

	t.Run("missing token", func(t *testing.T) {
		w := get(router, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("not a bearer token", func(t *testing.T) {
		w := get(router, http.Header{"Authorization": {"good-token"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		w := get(router, http.Header{"Authorization": {"Bearer bad"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthMiddlewareStoreFailure(t *testing.T) {
	mock := auth.NewMockAuthService()
	mock.ValidateTokenFunc = func(ctx context.Context, token string) (*models.User, error) {
		return nil, errors.New("connection refused")
	}
	router := newRouter(AuthMiddleware(mock))

	w := get(router, http.Header{"Authorization": {"Bearer x"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INFRASTRUCTURE_ERROR")
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newRouter(RequestIDMiddleware(), GinLoggerMiddleware())

	w := get(router, nil)
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)

	w = get(router, http.Header{"X-Request-Id": {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), "abc-123")
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(2, 1)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
	assert.GreaterOrEqual(t, tb.RetryAfter(), 1)
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Limit: 2, Window: time.Minute})
	router := newRouter(rl.Middleware())

	assert.Equal(t, http.StatusOK, get(router, nil).Code)
	assert.Equal(t, http.StatusOK, get(router, nil).Code)

	w := get(router, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiterKeysByUser(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Limit: 1, Window: time.Minute})
	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))
	assert.True(t, rl.Allow("bob"))
	assert.Equal(t, 0, rl.Prune())
}
