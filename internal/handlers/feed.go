package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/util"
)

// ForYou returns the global feed
// GET /api/v1/posts/for-you?cursor=&limit=
func (h *Handlers) ForYou(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	req, ok := pageRequest(c)
	if !ok {
		return
	}

	page, err := h.feed.ForYou(c.Request.Context(), userID, req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	respondPosts(c, page)
}

// Following returns posts by the users the viewer follows
// GET /api/v1/posts/following?cursor=&limit=
func (h *Handlers) Following(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	req, ok := pageRequest(c)
	if !ok {
		return
	}

	page, err := h.feed.Following(c.Request.Context(), userID, req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	respondPosts(c, page)
}

// UserPosts returns the posts of one user
// GET /api/v1/users/:id/posts?cursor=&limit=
func (h *Handlers) UserPosts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	req, ok := pageRequest(c)
	if !ok {
		return
	}

	page, err := h.feed.UserPosts(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	respondPosts(c, page)
}

// Bookmarked returns the viewer's bookmarked posts, most recently bookmarked first
// GET /api/v1/posts/bookmarked?cursor=&limit=
func (h *Handlers) Bookmarked(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	req, ok := pageRequest(c)
	if !ok {
		return
	}

	page, err := h.feed.Bookmarks(c.Request.Context(), userID, req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	respondPosts(c, page)
}

// Search returns posts matching q
// GET /api/v1/search?q=&cursor=&limit=
func (h *Handlers) Search(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	req, ok := pageRequest(c)
	if !ok {
		return
	}

	page, err := h.feed.Search(c.Request.Context(), userID, c.Query("q"), req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	respondPosts(c, page)
}
