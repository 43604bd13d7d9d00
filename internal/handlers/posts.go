package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/feed"
	"github.com/zfogg/trellis/internal/util"
)

// GetPost returns a single post
// GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	post, err := h.feed.Post(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost publishes a post as the viewer
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	created, err := h.social.CreatePost(c.Request.Context(), userID, req.Content)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	post, err := h.feed.Post(c.Request.Context(), userID, created.ID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// DeletePost deletes one of the viewer's posts
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.social.DeletePost(c.Request.Context(), userID, c.Param("id")); err != nil {
		util.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetComments returns a page of comments, oldest first within the page.
// previousCursor names the page of older comments.
// GET /api/v1/posts/:id/comments?cursor=&limit=
func (h *Handlers) GetComments(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	req, ok := pageRequest(c)
	if !ok {
		return
	}

	page, err := h.feed.Comments(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateComment comments on a post as the viewer
// POST /api/v1/posts/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	comment, err := h.social.CreateComment(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": feed.CommentView{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author:    feed.NewAuthor(comment.User),
	}})
}

// DeleteComment deletes one of the viewer's comments
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.social.DeleteComment(c.Request.Context(), userID, c.Param("id")); err != nil {
		util.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
