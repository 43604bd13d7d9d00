// Package handlers exposes the feed, social and chat services over HTTP
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/chat"
	"github.com/zfogg/trellis/internal/feed"
	"github.com/zfogg/trellis/internal/middleware"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/paging"
	"github.com/zfogg/trellis/internal/social"
	"github.com/zfogg/trellis/internal/util"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	feed   *feed.Service
	social *social.Service
	chat   *chat.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(feedService *feed.Service, socialService *social.Service, chatService *chat.Service) *Handlers {
	return &Handlers{
		feed:   feedService,
		social: socialService,
		chat:   chatService,
	}
}

// RegisterRoutes mounts every authenticated endpoint on api. Writes go
// through mutationLimit.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup, mutationLimit gin.HandlerFunc) {
	posts := api.Group("/posts")
	{
		posts.GET("/for-you", h.ForYou)
		posts.GET("/following", h.Following)
		posts.GET("/bookmarked", h.Bookmarked)
		posts.POST("", mutationLimit, h.CreatePost)
		posts.GET("/:id", h.GetPost)
		posts.DELETE("/:id", mutationLimit, h.DeletePost)

		posts.GET("/:id/comments", h.GetComments)
		posts.POST("/:id/comments", mutationLimit, h.CreateComment)

		posts.GET("/:id/likes", h.GetLikes)
		posts.POST("/:id/likes", mutationLimit, h.Like)
		posts.DELETE("/:id/likes", mutationLimit, h.Unlike)

		posts.GET("/:id/bookmark", h.GetBookmark)
		posts.POST("/:id/bookmark", mutationLimit, h.Bookmark)
		posts.DELETE("/:id/bookmark", mutationLimit, h.Unbookmark)
	}

	api.DELETE("/comments/:id", mutationLimit, h.DeleteComment)

	users := api.Group("/users")
	{
		users.GET("/suggestions", h.WhoToFollow)
		users.GET("/username/:username", h.GetUserByUsername)
		users.GET("/:id/posts", h.UserPosts)
		users.GET("/:id/followers", h.GetFollowers)
		users.POST("/:id/followers", mutationLimit, h.Follow)
		users.DELETE("/:id/followers", mutationLimit, h.Unfollow)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PATCH("/mark-as-read", h.MarkAllRead)
	}

	api.GET("/search", h.Search)
	api.GET("/trends", h.TrendingTopics)
	api.GET("/chat/token", h.ChatToken)
}

// pageRequest parses ?cursor=&limit= and responds 422 on a malformed cursor
func pageRequest(c *gin.Context) (paging.Request, bool) {
	req, err := paging.ParseRequest(c)
	if err != nil {
		util.RespondError(c, err)
		return paging.Request{}, false
	}
	return req, true
}

// currentUser returns the user resolved by the auth middleware
func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		util.RespondUnauthorized(c)
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		util.RespondUnauthorized(c)
		return nil, false
	}
	return user, true
}

func respondPosts(c *gin.Context, page paging.Page[feed.PostView]) {
	c.JSON(http.StatusOK, gin.H{
		"posts":      page.Items,
		"nextCursor": page.NextCursor,
	})
}

// contentRequest is the body of post and comment creation
type contentRequest struct {
	Content string `json:"content"`
}
