// Package users declares the repository contract for user identity records.
// Users are read by the auth flow and never mutated by it.
package users

import (
	"context"

	"github.com/sergejsb/authgate/internal/server/models"
)

type Repository interface {
	// Create inserts a user record. Only seed tooling and tests use this;
	// there is no self-registration endpoint.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email, case-insensitively.
	// Returns common.ErrorNotFound when no user matches.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by its id.
	// Returns common.ErrorNotFound when no user matches.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
