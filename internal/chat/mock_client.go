package chat

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockCall records a method call for assertion
type MockCall struct {
	Method string
	Args   []interface{}
}

// MockClient is a mock implementation of Client for testing.
// It allows configuring responses per method and tracks all calls for assertions.
type MockClient struct {
	mu sync.Mutex

	Calls []MockCall

	UpsertUserFunc  func(ctx context.Context, userID, username string) error
	CreateTokenFunc func(userID string, expiration time.Time) (string, error)

	DefaultError error
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a new mock client with sensible defaults
func NewMockClient() *MockClient {
	return &MockClient{Calls: make([]MockCall, 0)}
}

func (m *MockClient) recordCall(method string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
}

// GetCallsForMethod returns the recorded calls of method (thread-safe)
func (m *MockClient) GetCallsForMethod(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []MockCall
	for _, call := range m.Calls {
		if call.Method == method {
			result = append(result, call)
		}
	}
	return result
}

func (m *MockClient) UpsertUser(ctx context.Context, userID, username string) error {
	m.recordCall("UpsertUser", userID, username)
	if m.UpsertUserFunc != nil {
		return m.UpsertUserFunc(ctx, userID, username)
	}
	return m.DefaultError
}

func (m *MockClient) CreateToken(userID string, expiration time.Time) (string, error) {
	m.recordCall("CreateToken", userID, expiration)
	if m.CreateTokenFunc != nil {
		return m.CreateTokenFunc(userID, expiration)
	}
	if m.DefaultError != nil {
		return "", m.DefaultError
	}
	return fmt.Sprintf("mock_token_%s_%d", userID, expiration.Unix()), nil
}
