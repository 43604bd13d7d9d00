package auth

import (
	"context"
	"sync"

	"github.com/zfogg/trellis/internal/models"
)

// MockCall records a method call for assertion
type MockCall struct {
	Method string
	Args   []interface{}
}

// MockAuthService is a mock implementation of TokenValidator for testing.
// Tokens are the keys of Users.
type MockAuthService struct {
	mu sync.Mutex

	// Call tracking
	Calls []MockCall

	// Configurable function override
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*models.User, error)

	// Pre-configured users for testing, keyed by token
	Users map[string]*models.User
}

// NewMockAuthService creates a new mock auth service with sensible defaults
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Calls: make([]MockCall, 0),
		Users: make(map[string]*models.User),
	}
}

// recordCall records a method call for later assertion
func (m *MockAuthService) recordCall(method string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
}

// GetCalls returns all recorded calls (thread-safe)
func (m *MockAuthService) GetCalls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.Calls))
	copy(result, m.Calls)
	return result
}

// AddUser makes token resolve to user
func (m *MockAuthService) AddUser(token string, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[token] = user
}

// ValidateToken resolves token against Users unless ValidateTokenFunc is set
func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*models.User, error) {
	m.recordCall("ValidateToken", tokenString)

	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[tokenString]; ok {
		return user, nil
	}
	return nil, ErrInvalidToken
}

var _ TokenValidator = (*MockAuthService)(nil)
