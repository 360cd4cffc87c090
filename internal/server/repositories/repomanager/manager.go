// Package repomanager vends the repositories the user service works with,
// either PostgreSQL-backed or in memory, plus the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/agentdesk/internal/dbx"
	"github.com/dmitrijs2005/agentdesk/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/agentdesk/internal/server/repositories/users"
)

// RepositoryManager hands out account and refresh-token repositories bound
// to a connection or transaction. In-memory managers ignore the DBTX and
// may be given nil.
type RepositoryManager interface {
	// RunMigrations brings the users and refresh_tokens schema up to date.
	RunMigrations(ctx context.Context, db *sql.DB) error
	// Users returns the account store for login, registration and profile reads.
	Users(db dbx.DBTX) users.Repository
	// RefreshTokens returns the store used to issue, rotate and revoke refresh tokens.
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
