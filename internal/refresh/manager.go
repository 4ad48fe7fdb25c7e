// Package refresh generates, hashes, and rotates the opaque refresh tokens
// exchanged for new access tokens. Only a SHA-256 digest of a secret is ever
// persisted; rotation is strict single-use with no reuse grace period.
package refresh

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sergejsb/authgate/internal/common"
	"github.com/sergejsb/authgate/internal/dbx"
	"github.com/sergejsb/authgate/internal/server/models"
	"github.com/sergejsb/authgate/internal/server/repositories/repomanager"
)

// secretSize is the number of random bytes behind each secret.
const secretSize = 64

// Generate produces a new opaque refresh-token secret: 64 crypto-random
// bytes, base64-encoded for transport.
func Generate() (string, error) {
	b := make([]byte, secretSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Hash derives the storage/lookup digest of a secret. Deterministic, so the
// digest serves as the lookup key; a store compromise leaks no usable secrets.
func Hash(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Manager issues and redeems refresh tokens against the credential store.
type Manager struct {
	rm  repomanager.RepositoryManager
	ttl time.Duration

	// seam for deterministic expiry tests
	now func() time.Time
}

func NewManager(rm repomanager.RepositoryManager, ttl time.Duration) *Manager {
	return &Manager{rm: rm, ttl: ttl, now: time.Now}
}

// Issue creates a refresh-token record for userID with expiry now+ttl and
// returns the raw secret to hand to the client, plus the stored record.
func (m *Manager) Issue(ctx context.Context, db dbx.DBTX, userID string) (string, *models.RefreshToken, error) {
	return m.issue(ctx, m.rm.RefreshTokens(db), userID, m.now())
}

// Redeem performs strict single-use rotation inside one transaction:
// the presented secret is looked up by digest, the matching record is
// conditionally revoked, and a brand-new token is issued for the same user.
//
// A missing record, a revoked record, an expired record, and a concurrent
// redeem that lost the conditional update all collapse into the one opaque
// common.ErrorUnauthorized outcome; which of them occurred is not observable.
// Store failures propagate as wrapped errors, distinct from that outcome.
func (m *Manager) Redeem(ctx context.Context, db *sql.DB, secret string) (string, string, error) {
	digest := Hash(secret)

	var userID, newSecret string
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.rm.RefreshTokens(tx)

		record, err := repo.FindByHash(ctx, digest)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("looking up refresh token: %w", err)
		}

		now := m.now()
		if record.UserID == "" || !record.ActiveAt(now) {
			return common.ErrorUnauthorized
		}

		revoked, err := repo.Revoke(ctx, record.ID, now)
		if err != nil {
			return fmt.Errorf("revoking refresh token: %w", err)
		}
		if !revoked {
			// lost the race against another redeem of the same secret
			return common.ErrorUnauthorized
		}

		fresh, _, err := m.issue(ctx, repo, record.UserID, now)
		if err != nil {
			return err
		}

		userID, newSecret = record.UserID, fresh
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return userID, newSecret, nil
}

func (m *Manager) issue(ctx context.Context, repo repoCreator, userID string, now time.Time) (string, *models.RefreshToken, error) {
	secret, err := Generate()
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	record := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: Hash(secret),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := repo.Create(ctx, record); err != nil {
		return "", nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return secret, record, nil
}

// repoCreator is the subset of the repository used by issue.
type repoCreator interface {
	Create(ctx context.Context, token *models.RefreshToken) error
}
