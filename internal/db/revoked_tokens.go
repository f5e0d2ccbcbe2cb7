package db

import (
	"context"
	"time"

	"github.com/library-api/backend/internal/model"
)

// InsertRevokedToken records a token fingerprint on the blacklist. The
// unique constraint on token_hash plus ON CONFLICT DO NOTHING makes the
// insert idempotent, so concurrent revokes of the same token are safe.
func (db *Postgres) InsertRevokedToken(ctx context.Context, fingerprint string, userID *int64, expiresAt time.Time, reason string) error {
	query := `
		INSERT INTO revoked_tokens (token_hash, user_id, expires_at, reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_hash) DO NOTHING
	`
	_, err := db.Pool.Exec(ctx, query, fingerprint, userID, expiresAt, reason)
	return err
}

// IsTokenRevoked reports membership among entries that have not yet
// expired. Entries past expires_at count as "not revoked" even before the
// reaper physically deletes them; the token itself is already invalid then.
func (db *Postgres) IsTokenRevoked(ctx context.Context, fingerprint string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM revoked_tokens
			WHERE token_hash = $1 AND expires_at > NOW()
		)
	`
	var revoked bool
	if err := db.Pool.QueryRow(ctx, query, fingerprint).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

// DeleteExpiredTokens purges entries whose expires_at has passed and
// returns how many were removed. A single statement, safe to race with
// concurrent inserts and membership checks.
func (db *Postgres) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (db *Postgres) ListUserRevokedTokens(ctx context.Context, userID int64) ([]model.RevokedToken, error) {
	query := `
		SELECT id, token_hash, user_id, expires_at, revoked_at, reason
		FROM revoked_tokens
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY revoked_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.RevokedToken{}
	for rows.Next() {
		var e model.RevokedToken
		if err := rows.Scan(&e.ID, &e.Fingerprint, &e.UserID, &e.ExpiresAt, &e.RevokedAt, &e.Reason); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (db *Postgres) RevokedTokenStats(ctx context.Context) (model.RevocationStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE expires_at > NOW()),
			COUNT(*) FILTER (WHERE expires_at <= NOW()),
			COUNT(*) FILTER (WHERE revoked_at > NOW() - INTERVAL '24 hours')
		FROM revoked_tokens
	`
	var stats model.RevocationStats
	err := db.Pool.QueryRow(ctx, query).Scan(&stats.Active, &stats.Expired, &stats.Recent24h)
	return stats, err
}
