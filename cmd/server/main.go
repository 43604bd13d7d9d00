package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zfogg/trellis/internal/auth"
	"github.com/zfogg/trellis/internal/cache"
	"github.com/zfogg/trellis/internal/chat"
	"github.com/zfogg/trellis/internal/config"
	"github.com/zfogg/trellis/internal/database"
	"github.com/zfogg/trellis/internal/feed"
	"github.com/zfogg/trellis/internal/handlers"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/metrics"
	"github.com/zfogg/trellis/internal/middleware"
	"github.com/zfogg/trellis/internal/social"
	"github.com/zfogg/trellis/internal/telemetry"
	"github.com/zfogg/trellis/internal/websocket"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("=== Trellis server starting ===",
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.DatabaseDriver),
	)

	metrics.Initialize()

	tp, err := telemetry.InitTracer(telemetry.ConfigFrom(cfg))
	if err != nil {
		logger.WarnWithFields("Tracing disabled, failed to initialize tracer", err)
	}

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close(db)

	if tp != nil {
		if err := db.Use(telemetry.GORMTracingPlugin()); err != nil {
			logger.WarnWithFields("Failed to register GORM tracing plugin", err)
		}
	}

	if err := database.Migrate(db); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	// Redis is optional: unread counts and trends fall back to the database
	var redisClient *cache.RedisClient
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.WarnWithFields("Continuing without Redis cache", err)
			redisClient = nil
		}
	}
	defer redisClient.Close()

	// Chat is optional: the token endpoint answers 503 without credentials
	var chatClient chat.Client
	if cfg.StreamAPIKey != "" {
		streamClient, err := chat.NewStreamClient(cfg.StreamAPIKey, cfg.StreamAPISecret)
		if err != nil {
			logger.WarnWithFields("Chat disabled", err)
		} else {
			chatClient = streamClient
		}
	}

	// WebSocket hub pushes notifications to connected clients
	wsHub := websocket.NewHub()
	wsHub.Start()

	authService := auth.NewService(db, []byte(cfg.JWTSecret), cfg.TokenTTL)
	socialService := social.NewService(db,
		social.WithCache(redisClient),
		social.WithNotifier(wsHub),
	)
	feedService := feed.NewService(db)
	chatService := chat.NewService(chatClient, cfg.StreamAPIKey)

	wsHandler := websocket.NewHandler(wsHub, authService, cfg.CORSOrigins)
	wsHandler.RegisterNotificationHandlers(socialService)

	h := handlers.NewHandlers(feedService, socialService, chatService)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	if tp != nil {
		r.Use(middleware.TracingMiddleware(telemetry.ServiceName))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Unauthenticated endpoints
	r.GET("/health", handlers.Health(db, redisClient))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket - auth via query param ?token=... or Authorization header
	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(authService))
	h.RegisterRoutes(api, middleware.RateLimitMutations())
	api.GET("/ws/stats", wsHandler.HandleStats)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("Trellis backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown WebSocket connections gracefully
	if err := wsHandler.Shutdown(ctx); err != nil {
		logger.WarnWithFields("WebSocket shutdown warning", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}

	if err := telemetry.Shutdown(ctx, tp); err != nil {
		logger.WarnWithFields("Failed to flush traces", err)
	}

	logger.Log.Info("Server exited")
}
