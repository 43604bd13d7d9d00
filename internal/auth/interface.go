package auth

import (
	"context"

	"github.com/zfogg/trellis/internal/models"
)

// TokenValidator resolves a bearer token to the user it was issued for.
// This enables mocking for handler tests without signing real tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*models.User, error)
}

// Ensure Service implements TokenValidator
var _ TokenValidator = (*Service)(nil)
