package websocket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/auth"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/middleware"
	"github.com/zfogg/trellis/internal/util"
	"go.uber.org/zap"
)

// NotificationStore is the part of the social service the socket needs to
// acknowledge read notifications
type NotificationStore interface {
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// Handler handles WebSocket HTTP upgrade requests
type Handler struct {
	hub            *Hub
	validator      auth.TokenValidator
	originPatterns []string
}

// NewHandler creates a new WebSocket handler. originPatterns lists the
// hosts allowed to open cross-origin connections.
func NewHandler(hub *Hub, validator auth.TokenValidator, originPatterns []string) *Handler {
	return &Handler{
		hub:            hub,
		validator:      validator,
		originPatterns: originPatterns,
	}
}

// HandleWebSocket upgrades an authenticated request.
// The token comes from the query param ?token=... or an Authorization: Bearer header.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if bearer := middleware.BearerToken(c); bearer != "" {
		token = bearer
	}
	if token == "" {
		util.RespondUnauthorized(c, "no authentication token provided")
		return
	}

	user, err := h.validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		logger.Log.Debug("WebSocket auth failed", logger.WithIP(c.ClientIP()), zap.Error(err))
		util.RespondUnauthorized(c, "invalid or expired token")
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns:  h.originPatterns,
		CompressionMode: websocket.CompressionContextTakeover,
	})
	if err != nil {
		logger.WarnWithFields("WebSocket upgrade failed", err)
		return
	}

	client := NewClient(h.hub, conn, user.ID, user.Username)
	client.RemoteAddr = c.ClientIP()
	client.UserAgent = c.GetHeader("User-Agent")

	h.hub.Register(client)

	_ = client.Send(NewMessage(MessageTypeSystem, SystemPayload{
		Event: "connected",
		Data: map[string]interface{}{
			"user_id":     user.ID,
			"username":    user.Username,
			"server_time": time.Now().UTC().UnixMilli(),
		},
	}))

	go client.WritePump()
	client.ReadPump() // blocks until the client disconnects
}

// HandleStats returns hub statistics for monitoring
func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"websocket":    h.hub.GetStats(),
		"online_users": len(h.hub.GetOnlineUsers()),
		"timestamp":    time.Now().UTC(),
	})
}

// RegisterNotificationHandlers lets clients mark their notifications read
// over the socket. The reply carries the new unread count.
func (h *Handler) RegisterNotificationHandlers(store NotificationStore) {
	h.hub.RegisterHandler(MessageTypeNotificationRead, func(client *Client, msg *Message) error {
		ctx, cancel := context.WithTimeout(client.Context(), writeWait)
		defer cancel()

		if _, err := store.MarkAllRead(ctx, client.UserID); err != nil {
			return fmt.Errorf("mark read: %w", err)
		}
		unread, err := store.UnreadCount(ctx, client.UserID)
		if err != nil {
			return fmt.Errorf("unread count: %w", err)
		}
		return client.Send(NewReply(msg, MessageTypeNotificationCount, NotificationCountPayload{
			UnreadCount: unread,
			Timestamp:   time.Now().UnixMilli(),
		}))
	})
}

// Shutdown gracefully shuts down the hub
func (h *Handler) Shutdown(ctx context.Context) error {
	return h.hub.Shutdown(ctx)
}
