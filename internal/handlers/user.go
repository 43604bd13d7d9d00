package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/feed"
	"github.com/zfogg/trellis/internal/util"
)

// GetUserByUsername returns a user profile with counts
// GET /api/v1/users/username/:username
func (h *Handlers) GetUserByUsername(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	profile, err := h.social.UserByUsername(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// WhoToFollow suggests users the viewer does not follow yet
// GET /api/v1/users/suggestions
func (h *Handlers) WhoToFollow(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	users, err := h.social.WhoToFollow(c.Request.Context(), userID)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	authors := make([]feed.Author, len(users))
	for i, u := range users {
		authors[i] = feed.NewAuthor(u)
	}
	c.JSON(http.StatusOK, gin.H{"users": authors})
}

// TrendingTopics returns the most used recent hashtags
// GET /api/v1/trends
func (h *Handlers) TrendingTopics(c *gin.Context) {
	trends, err := h.social.TrendingTopics(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// ChatToken issues a token for the hosted chat service
// GET /api/v1/chat/token
func (h *Handlers) ChatToken(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	token, err := h.chat.Token(c.Request.Context(), user)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}
