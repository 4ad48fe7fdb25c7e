package models

import "time"

// RefreshToken is a single-use credential. Only the SHA-256 digest of the
// opaque secret handed to the client is ever stored. Consumed tokens are kept
// with revoked_at set rather than deleted, for audit and replay detection.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// ActiveAt reports whether the token can still be redeemed at instant t:
// it has not been revoked and its expiry has not passed.
func (r *RefreshToken) ActiveAt(t time.Time) bool {
	return r.RevokedAt == nil && !t.After(r.ExpiresAt)
}
