package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/cache"
	"github.com/zfogg/trellis/internal/database"
	"github.com/zfogg/trellis/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Health reports store connectivity. A failing cache degrades the status
// but keeps the endpoint healthy since caching is optional.
// GET /health
func Health(db *gorm.DB, rc *cache.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok"}
		status := http.StatusOK

		if err := database.Health(db); err != nil {
			logger.Log.Warn("Database health check failed", zap.Error(err))
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}

		switch {
		case !rc.Enabled():
			checks["cache"] = "disabled"
		case rc.Ping(ctx) != nil:
			checks["cache"] = "unavailable"
		default:
			checks["cache"] = "ok"
		}

		result := "healthy"
		if status != http.StatusOK {
			result = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":    result,
			"checks":    checks,
			"timestamp": time.Now().UTC(),
		})
	}
}
