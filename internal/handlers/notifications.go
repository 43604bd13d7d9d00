package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/util"
)

// Notifications returns the viewer's notifications, newest first
// GET /api/v1/notifications?cursor=&limit=
func (h *Handlers) Notifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	req, ok := pageRequest(c)
	if !ok {
		return
	}

	page, err := h.feed.Notifications(c.Request.Context(), userID, req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": page.Items,
		"nextCursor":    page.NextCursor,
	})
}

// UnreadCount returns the number of unread notifications
// GET /api/v1/notifications/unread-count
func (h *Handlers) UnreadCount(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	n, err := h.social.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": n})
}

// MarkAllRead marks every notification of the viewer as read
// PATCH /api/v1/notifications/mark-as-read
func (h *Handlers) MarkAllRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	n, err := h.social.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
