package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

func postPath(postID, suffix string) string {
	return "/posts/" + url.PathEscape(postID) + suffix
}

func followersPath(userID string) string {
	return "/users/" + url.PathEscape(userID) + "/followers"
}

// Post fetches a single post
func (c *Client) Post(ctx context.Context, postID string) (*Post, error) {
	var env postEnvelope
	if err := c.do(ctx, http.MethodGet, postPath(postID, ""), nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Post, nil
}

// CreatePost publishes a post as the caller
func (c *Client) CreatePost(ctx context.Context, content string) (*Post, error) {
	var env postEnvelope
	if err := c.do(ctx, http.MethodPost, "/posts", nil, contentRequest{Content: content}, &env); err != nil {
		return nil, err
	}
	return &env.Post, nil
}

// DeletePost removes one of the caller's posts
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, postPath(postID, ""), nil, nil, nil)
}

// CreateComment comments on a post
func (c *Client) CreateComment(ctx context.Context, postID, content string) (*Comment, error) {
	var env commentEnvelope
	if err := c.do(ctx, http.MethodPost, postPath(postID, "/comments"), nil, contentRequest{Content: content}, &env); err != nil {
		return nil, err
	}
	return &env.Comment, nil
}

// DeleteComment removes one of the caller's comments
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(commentID), nil, nil, nil)
}

func (c *Client) likes(ctx context.Context, method, postID string) (*LikeInfo, error) {
	var info LikeInfo
	if err := c.do(ctx, method, postPath(postID, "/likes"), nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// LikeInfo fetches the like count and whether the caller liked the post
func (c *Client) LikeInfo(ctx context.Context, postID string) (*LikeInfo, error) {
	return c.likes(ctx, http.MethodGet, postID)
}

// Like likes a post. Liking twice is a no-op.
func (c *Client) Like(ctx context.Context, postID string) (*LikeInfo, error) {
	return c.likes(ctx, http.MethodPost, postID)
}

// Unlike removes the caller's like
func (c *Client) Unlike(ctx context.Context, postID string) (*LikeInfo, error) {
	return c.likes(ctx, http.MethodDelete, postID)
}

func (c *Client) bookmark(ctx context.Context, method, postID string) (*BookmarkInfo, error) {
	var info BookmarkInfo
	if err := c.do(ctx, method, postPath(postID, "/bookmark"), nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// BookmarkInfo reports whether the caller bookmarked the post
func (c *Client) BookmarkInfo(ctx context.Context, postID string) (*BookmarkInfo, error) {
	return c.bookmark(ctx, http.MethodGet, postID)
}

// Bookmark saves a post for the caller
func (c *Client) Bookmark(ctx context.Context, postID string) (*BookmarkInfo, error) {
	return c.bookmark(ctx, http.MethodPost, postID)
}

// Unbookmark removes a saved post
func (c *Client) Unbookmark(ctx context.Context, postID string) (*BookmarkInfo, error) {
	return c.bookmark(ctx, http.MethodDelete, postID)
}

func (c *Client) followers(ctx context.Context, method, userID string) (*FollowerInfo, error) {
	var info FollowerInfo
	if err := c.do(ctx, method, followersPath(userID), nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FollowerInfo fetches the follower count and whether the caller follows the user
func (c *Client) FollowerInfo(ctx context.Context, userID string) (*FollowerInfo, error) {
	return c.followers(ctx, http.MethodGet, userID)
}

// Follow follows a user
func (c *Client) Follow(ctx context.Context, userID string) (*FollowerInfo, error) {
	return c.followers(ctx, http.MethodPost, userID)
}

// Unfollow stops following a user
func (c *Client) Unfollow(ctx context.Context, userID string) (*FollowerInfo, error) {
	return c.followers(ctx, http.MethodDelete, userID)
}
