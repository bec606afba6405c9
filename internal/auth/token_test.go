package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guahanweb/photography-challenges-backend/internal/auth"
	"github.com/guahanweb/photography-challenges-backend/internal/users/domain"
)

func testUser() *domain.User {
	return &domain.User{
		Email:     "alice@example.com",
		CreatedAt: "2026-01-01T00:00:00Z",
		Roles:     []string{"photographer"},
	}
}

func TestGenerateAndVerify(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{"photographer"}, claims.Roles)
	assert.Equal(t, "2026-01-01T00:00:00Z", claims.CreatedAt)
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	svc := auth.NewTokenService("", time.Hour)

	_, err := svc.GenerateToken(testUser())
	assert.Error(t, err)
}

func TestVerifyToken_Failures(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewTokenService("other-secret", time.Hour)
		token, err := other.GenerateToken(testUser())
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := auth.NewTokenService("test-secret", -time.Minute)
		token, err := expired.GenerateToken(testUser())
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := svc.GenerateToken(testUser())
		require.NoError(t, err)

		_, err = svc.VerifyToken(token + "x")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := auth.ExtractTokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	for _, header := range []string{
		"",
		"abc123",
		"Bearer",
		"Bearer ",
		"bearer abc123",
		"Bearer abc 123",
	} {
		_, err := auth.ExtractTokenFromHeader(header)
		assert.ErrorIs(t, err, auth.ErrInvalidAuthHeader, "header %q", header)
	}
}
