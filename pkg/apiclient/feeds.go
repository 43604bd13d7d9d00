package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// ForYou fetches the global feed. A nil cursor requests the first page.
func (c *Client) ForYou(ctx context.Context, cursor *string) (*PostPage, error) {
	return c.postPage(ctx, "/posts/for-you", c.pageQuery(cursor))
}

// Following fetches posts by users the caller follows
func (c *Client) Following(ctx context.Context, cursor *string) (*PostPage, error) {
	return c.postPage(ctx, "/posts/following", c.pageQuery(cursor))
}

// Bookmarked fetches the caller's bookmarks, most recently saved first
func (c *Client) Bookmarked(ctx context.Context, cursor *string) (*PostPage, error) {
	return c.postPage(ctx, "/posts/bookmarked", c.pageQuery(cursor))
}

// UserPosts fetches one user's posts
func (c *Client) UserPosts(ctx context.Context, userID string, cursor *string) (*PostPage, error) {
	return c.postPage(ctx, "/users/"+url.PathEscape(userID)+"/posts", c.pageQuery(cursor))
}

// Search fetches posts matching every word of q
func (c *Client) Search(ctx context.Context, q string, cursor *string) (*PostPage, error) {
	query := c.pageQuery(cursor)
	query["q"] = q
	return c.postPage(ctx, "/search", query)
}

// Notifications fetches the caller's notifications, newest first
func (c *Client) Notifications(ctx context.Context, cursor *string) (*NotificationPage, error) {
	var page NotificationPage
	if err := c.do(ctx, http.MethodGet, "/notifications", c.pageQuery(cursor), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Comments fetches comments on a post. The first page holds the newest
// comments; PreviousCursor walks towards older ones.
func (c *Client) Comments(ctx context.Context, postID string, cursor *string) (*CommentPage, error) {
	var page CommentPage
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID)+"/comments", c.pageQuery(cursor), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
