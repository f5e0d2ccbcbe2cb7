package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenClaims is the payload carried by every issued token.
type TokenClaims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens. The signing secret
// is read once at construction; rotating it invalidates every token issued
// before the rotation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret, ttl string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	parsedTTL, err := time.ParseDuration(ttl)
	if err != nil || parsedTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid JWT_TTL", ErrMisconfigured)
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    parsedTTL,
	}, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed token for the given user valid for the
// configured duration from now.
func (s *TokenService) Issue(userID int64, role string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature integrity and the expiry claim. It does not
// consult the revocation list; that is the middleware's job.
func (s *TokenService) Verify(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Decode extracts claims without verifying the signature. Best effort,
// used only to recover an expiry timestamp when revoking a token of
// unknown validity; returns nil when the token cannot be parsed at all.
func (s *TokenService) Decode(tokenStr string) *TokenClaims {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil
	}
	return claims
}
