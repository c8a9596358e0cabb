package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vocablearn/internal/domain"
)

// AccessTokenTTL is the fixed lifetime of an access token. Access tokens are
// not revocable before expiry; clients exchange the refresh token instead.
const AccessTokenTTL = 30 * time.Minute

type TokenManager struct {
	accessSecret []byte
	accessTTL    time.Duration
}

func NewTokenManager(accessSecret string) *TokenManager {
	return &TokenManager{
		accessSecret: []byte(accessSecret),
		accessTTL:    AccessTokenTTL,
	}
}

// GenerateAccess mints a signed access token carrying the identity claims the
// client renders without an extra profile fetch.
func (m *TokenManager) GenerateAccess(user *domain.User) (string, error) {
	now := time.Now()
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         user.ID.String(),
		"uid":         user.ID.String(),
		"email":       user.Email,
		"displayName": user.DisplayName,
		"iat":         now.Unix(),
		"exp":         now.Add(m.accessTTL).Unix(),
	})
	return at.SignedString(m.accessSecret)
}

// NewRefreshToken returns an opaque single-use refresh token. Its validity
// lives entirely in the refresh store, not in the token itself.
func (m *TokenManager) NewRefreshToken() string {
	return uuid.NewString()
}

// ValidateAccessToken verifies signature and expiry and returns the subject
// user id. It never consults the refresh store.
func (m *TokenManager) ValidateAccessToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return "", errors.New("unexpected signing method")
		}
		return m.accessSecret, nil
	})
	if err != nil {
		return "", domain.ErrTokenInvalid
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return "", domain.ErrTokenInvalid
		}
		return sub, nil
	}
	return "", domain.ErrTokenInvalid
}

// withTTL is used by tests to shrink the expiry window.
func (m *TokenManager) withTTL(ttl time.Duration) *TokenManager {
	return &TokenManager{accessSecret: m.accessSecret, accessTTL: ttl}
}
