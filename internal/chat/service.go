package chat

import (
	"context"
	"time"

	"github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/models"
	"go.uber.org/zap"
)

// TokenTTL is how long an issued chat token stays valid
const TokenTTL = time.Hour

// TokenResponse is what a client needs to connect to chat
type TokenResponse struct {
	Token     string    `json:"token"`
	APIKey    string    `json:"apiKey"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service issues chat tokens. A Service without a client reports the chat
// backend as unavailable.
type Service struct {
	client Client
	apiKey string
	now    func() time.Time
}

// NewService creates a chat service. client may be nil when chat is not configured.
func NewService(client Client, apiKey string) *Service {
	return &Service{
		client: client,
		apiKey: apiKey,
		now:    time.Now,
	}
}

// Enabled reports whether a chat backend is configured
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Token mirrors user into chat and issues a token for them
func (s *Service) Token(ctx context.Context, user *models.User) (*TokenResponse, error) {
	if !s.Enabled() {
		return nil, errors.ServiceUnavailable("chat")
	}

	if err := s.client.UpsertUser(ctx, user.ID, user.Username); err != nil {
		logger.Log.Warn("Chat user sync failed", logger.WithUserID(user.ID), zap.Error(err))
		return nil, errors.Infrastructure("failed to sync chat user", err)
	}

	expiresAt := s.now().Add(TokenTTL).UTC()
	token, err := s.client.CreateToken(user.ID, expiresAt)
	if err != nil {
		return nil, errors.Infrastructure("failed to create chat token", err)
	}

	return &TokenResponse{
		Token:     token,
		APIKey:    s.apiKey,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}, nil
}
