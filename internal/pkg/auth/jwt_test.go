// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
)

func testManager() *JWTManager {
	cfg := &config.Config{}
	cfg.App.Name = "storefront-test"
	cfg.JWT.Secret = "test-secret-key-not-for-production"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 7 * 24 * time.Hour
	return NewJWTManager(cfg)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := testManager()

	token, err := manager.GenerateAccessToken(42, "test@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	manager := testManager()

	token, err := manager.GenerateRefreshToken(7, "user@example.com")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
	assert.False(t, claims.IsAdmin)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	manager := testManager()

	token, err := manager.GenerateRefreshToken(7, "user@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	manager := testManager()

	token, err := manager.GenerateAccessToken(1, "a@example.com", false)
	require.NoError(t, err)

	other := testManager()
	other.config.JWT.Secret = "a-different-secret"

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	manager := testManager()

	_, err := manager.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", ""},
		{"abc.def.ghi", ""},
		{"", ""},
		{"Bearer ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTokenFromHeader(tt.header), "header %q", tt.header)
	}
}
