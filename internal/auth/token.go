// Package auth issues and verifies the signed bearer tokens used on all
// non-public routes.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guahanweb/photography-challenges-backend/internal/users/domain"
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens; a
	// token is never partially trusted.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidAuthHeader means the Authorization header was not exactly
	// "Bearer <token>".
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
)

// Claims is what a token carries about its user. Credential secrets are never
// embedded.
type Claims struct {
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"createdAt"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies tokens with an HMAC secret.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn}
}

// GenerateToken issues a signed, time-bound token for the given user.
func (s *TokenService) GenerateToken(user *domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("signing key unavailable")
	}

	now := time.Now()
	claims := Claims{
		Email:     user.Email,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token, returning its claims. Any failure
// (bad signature, malformed, expired) collapses to ErrInvalidToken.
func (s *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractTokenFromHeader returns the token from an Authorization header that
// is exactly "Bearer <token>" with a non-empty token.
func ExtractTokenFromHeader(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidAuthHeader
	}
	return parts[1], nil
}
