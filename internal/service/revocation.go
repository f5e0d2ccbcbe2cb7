package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/library-api/backend/internal/model"
)

const (
	ReasonLogout         = "logout"
	ReasonPasswordChange = "password_change"
)

type RevocationRepo interface {
	InsertRevokedToken(ctx context.Context, fingerprint string, userID *int64, expiresAt time.Time, reason string) error
	IsTokenRevoked(ctx context.Context, fingerprint string) (bool, error)
	DeleteExpiredTokens(ctx context.Context) (int64, error)
	ListUserRevokedTokens(ctx context.Context, userID int64) ([]model.RevokedToken, error)
	RevokedTokenStats(ctx context.Context) (model.RevocationStats, error)
}

// RevocationService maintains the token blacklist. Tokens are tracked by
// sha256 fingerprint only; the raw token never reaches storage.
type RevocationService struct {
	repo        RevocationRepo
	tokens      *TokenService
	fallbackTTL time.Duration
}

func NewRevocationService(repo RevocationRepo, tokens *TokenService, fallbackTTL string) (*RevocationService, error) {
	ttl, err := time.ParseDuration(fallbackTTL)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("%w: invalid REVOCATION_FALLBACK_TTL", ErrMisconfigured)
	}
	return &RevocationService{
		repo:        repo,
		tokens:      tokens,
		fallbackTTL: ttl,
	}, nil
}

// Fingerprint returns the hex sha256 digest of the exact token bytes.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Revoke puts a token on the blacklist. The entry expires when the token
// itself does; when the expiry claim cannot be decoded the entry gets the
// fallback retention window so it still self-expires. Inserting the same
// token twice is a no-op.
func (s *RevocationService) Revoke(ctx context.Context, token string, userID *int64, reason string) error {
	expiresAt := time.Now().Add(s.fallbackTTL)
	if claims := s.tokens.Decode(token); claims != nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.repo.InsertRevokedToken(ctx, Fingerprint(token), userID, expiresAt, reason); err != nil {
		log.Printf("failed to revoke token (reason=%s): %v", reason, err)
		return err
	}
	return nil
}

// IsRevoked reports whether the token is on the blacklist with an entry
// that has not yet expired. On a store failure it fails open and reports
// "not revoked": the token still dies at its natural expiry, and an
// unreachable blacklist must not lock every request out.
func (s *RevocationService) IsRevoked(ctx context.Context, token string) bool {
	revoked, err := s.repo.IsTokenRevoked(ctx, Fingerprint(token))
	if err != nil {
		log.Printf("revocation check failed, allowing request: %v", err)
		return false
	}
	return revoked
}

// Reap deletes entries whose expiry has passed and returns the count
// removed. Safe to call concurrently and repeatedly.
func (s *RevocationService) Reap(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredTokens(ctx)
}

// ListForUser returns a user's still-active blacklist entries.
func (s *RevocationService) ListForUser(ctx context.Context, userID int64) ([]model.RevokedToken, error) {
	return s.repo.ListUserRevokedTokens(ctx, userID)
}

func (s *RevocationService) Stats(ctx context.Context) (model.RevocationStats, error) {
	return s.repo.RevokedTokenStats(ctx)
}
