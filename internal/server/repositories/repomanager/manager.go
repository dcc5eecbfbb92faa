package repomanager

import (
	"context"
	"database/sql"

	"github.com/lorenzotiziani/authcore/internal/dbx"
	"github.com/lorenzotiziani/authcore/internal/server/repositories/refreshtokens"
	"github.com/lorenzotiziani/authcore/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to an arbitrary DBTX so services
// can run them against the pool or against an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
