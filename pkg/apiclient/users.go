package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// UserByUsername fetches a profile. Usernames match case-insensitively.
func (c *Client) UserByUsername(ctx context.Context, username string) (*Profile, error) {
	var env profileEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/username/"+url.PathEscape(username), nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// WhoToFollow suggests users the caller does not follow yet
func (c *Client) WhoToFollow(ctx context.Context) ([]Author, error) {
	var env usersEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/suggestions", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Users, nil
}

// Trends fetches the most used hashtags across recent posts
func (c *Client) Trends(ctx context.Context) ([]Trend, error) {
	var env trendsEnvelope
	if err := c.do(ctx, http.MethodGet, "/trends", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Trends, nil
}

// UnreadCount fetches the caller's unread notification count
func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var env unreadEnvelope
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, nil, &env); err != nil {
		return 0, err
	}
	return env.UnreadCount, nil
}

// MarkAllRead marks every notification read and returns how many changed
func (c *Client) MarkAllRead(ctx context.Context) (int64, error) {
	var env markedEnvelope
	if err := c.do(ctx, http.MethodPatch, "/notifications/mark-as-read", nil, nil, &env); err != nil {
		return 0, err
	}
	return env.Marked, nil
}

// ChatToken issues a token for the chat SDK
func (c *Client) ChatToken(ctx context.Context) (*ChatToken, error) {
	var token ChatToken
	if err := c.do(ctx, http.MethodGet, "/chat/token", nil, nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
