package repomanager

import (
	"context"
	"database/sql"

	"github.com/sergejsb/authgate/internal/dbx"
	"github.com/sergejsb/authgate/internal/server/repositories/refreshtokens"
	"github.com/sergejsb/authgate/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX (either the pooled
// *sql.DB or a transaction), and exposes the schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
