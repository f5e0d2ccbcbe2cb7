package model

import "time"

// RevokedToken is one blacklist entry. Only the sha256 fingerprint of the
// token is ever stored, never the token itself.
type RevokedToken struct {
	ID          int64     `json:"id"`
	Fingerprint string    `json:"-"`
	UserID      *int64    `json:"user_id,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	RevokedAt   time.Time `json:"revoked_at"`
	Reason      string    `json:"reason"`
}

type RevocationStats struct {
	Active    int64 `json:"active"`
	Expired   int64 `json:"expired"`
	Recent24h int64 `json:"recent24h"`
}
