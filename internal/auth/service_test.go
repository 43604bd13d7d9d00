package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/trellis/internal/models"
	"github.com/zfogg/trellis/internal/testutil"
	"gorm.io/gorm"
)

// AuthServiceTestSuite contains auth service tests
type AuthServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	authService *Service
	user        *models.User
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

// SetupTest opens a fresh store per test
func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	suite.authService = NewService(suite.db, []byte("test_jwt_secret_key"), time.Hour)
	suite.user = testutil.CreateUser(suite.T(), suite.db, "jwttest")
}

// TestJWTTokenValidation tests JWT token generation and validation
func (suite *AuthServiceTestSuite) TestJWTTokenValidation() {
	t := suite.T()

	resp, err := suite.authService.GenerateTokenForUser(suite.user)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	validated, err := suite.authService.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, suite.user.ID, validated.ID)
	assert.Equal(t, "jwttest", validated.Username)
}

func (suite *AuthServiceTestSuite) TestInvalidTokens() {
	t := suite.T()
	ctx := context.Background()

	_, err := suite.authService.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Signed with another secret
	other := NewService(suite.db, []byte("another_secret"), time.Hour)
	resp, err := other.GenerateTokenForUser(suite.user)
	require.NoError(t, err)
	_, err = suite.authService.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Wrong algorithm
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": suite.user.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = suite.authService.ValidateToken(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestExpiredToken() {
	t := suite.T()

	resp, err := suite.authService.GenerateTokenForUser(suite.user)
	require.NoError(t, err)

	suite.authService.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = suite.authService.ValidateToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestDeletedUser() {
	t := suite.T()

	resp, err := suite.authService.GenerateTokenForUser(suite.user)
	require.NoError(t, err)
	require.NoError(t, suite.db.Delete(&models.User{}, "id = ?", suite.user.ID).Error)

	_, err = suite.authService.ValidateToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func (suite *AuthServiceTestSuite) TestGenerateTokenForUsername() {
	t := suite.T()

	resp, err := suite.authService.GenerateTokenForUsername(context.Background(), "JWTTest")
	require.NoError(t, err)
	assert.Equal(t, suite.user.ID, resp.User.ID)

	_, err = suite.authService.GenerateTokenForUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMockAuthService(t *testing.T) {
	m := NewMockAuthService()
	user := &models.User{ID: "u1", Username: "mock"}
	m.AddUser("tok", user)

	got, err := m.ValidateToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = m.ValidateToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Len(t, m.GetCalls(), 2)
}
