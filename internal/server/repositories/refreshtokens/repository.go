// Package refreshtokens declares the repository contract for refresh-token
// records in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/sergejsb/authgate/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens. Records are never deleted; consumption sets revoked_at.
type Repository interface {
	// Create stores a new refresh-token record.
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindByHash looks a record up by the digest of its opaque secret,
	// regardless of whether it is still active. Returns common.ErrorNotFound
	// when no record matches.
	FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error)

	// Revoke marks the record revoked at the given instant, but only if it
	// has not been revoked already. Reports whether a row transitioned, so
	// concurrent redeems of the same secret resolve to a single winner.
	Revoke(ctx context.Context, id string, at time.Time) (bool, error)
}
