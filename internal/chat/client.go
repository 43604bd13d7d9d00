// Package chat issues tokens for the hosted chat service so clients can
// connect to it directly.
package chat

import (
	"context"
	"fmt"
	"time"

	stream "github.com/GetStream/stream-chat-go/v5"
)

// Client is the subset of the chat SDK the service needs.
// This enables mocking for unit tests without a real chat backend.
type Client interface {
	UpsertUser(ctx context.Context, userID, username string) error
	CreateToken(userID string, expiration time.Time) (string, error)
}

// StreamClient talks to GetStream chat
type StreamClient struct {
	chat *stream.Client
}

var _ Client = (*StreamClient)(nil)

// NewStreamClient creates a chat client from API credentials
func NewStreamClient(apiKey, apiSecret string) (*StreamClient, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("chat API key and secret must be set")
	}

	c, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}
	return &StreamClient{chat: c}, nil
}

// UpsertUser creates or updates the chat user mirroring a local user
func (c *StreamClient) UpsertUser(ctx context.Context, userID, username string) error {
	_, err := c.chat.UpsertUser(ctx, &stream.User{
		ID:   userID,
		Name: username,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert chat user: %w", err)
	}
	return nil
}

// CreateToken signs a chat token for userID valid until expiration
func (c *StreamClient) CreateToken(userID string, expiration time.Time) (string, error) {
	token, err := c.chat.CreateToken(userID, expiration)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}
	return token, nil
}
