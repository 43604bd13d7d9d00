package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/util"
)

// GetLikes returns the like count of a post and whether the viewer likes it
// GET /api/v1/posts/:id/likes
func (h *Handlers) GetLikes(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.LikeInfo(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Like likes a post. Liking twice is a no-op.
// POST /api/v1/posts/:id/likes
func (h *Handlers) Like(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.Like(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Unlike removes the viewer's like
// DELETE /api/v1/posts/:id/likes
func (h *Handlers) Unlike(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.Unlike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetBookmark reports whether the viewer bookmarked a post
// GET /api/v1/posts/:id/bookmark
func (h *Handlers) GetBookmark(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.BookmarkInfo(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Bookmark bookmarks a post
// POST /api/v1/posts/:id/bookmark
func (h *Handlers) Bookmark(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.Bookmark(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Unbookmark removes a bookmark
// DELETE /api/v1/posts/:id/bookmark
func (h *Handlers) Unbookmark(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.Unbookmark(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetFollowers returns the follower count of a user and whether the viewer follows them
// GET /api/v1/users/:id/followers
func (h *Handlers) GetFollowers(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.FollowerInfo(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Follow follows a user
// POST /api/v1/users/:id/followers
func (h *Handlers) Follow(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.Follow(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Unfollow unfollows a user
// DELETE /api/v1/users/:id/followers
func (h *Handlers) Unfollow(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	info, err := h.social.Unfollow(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
