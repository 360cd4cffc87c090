package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/agentdesk/internal/dbx"
	"github.com/dmitrijs2005/agentdesk/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/agentdesk/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out the same in-memory repositories
// regardless of the DBTX passed in. Nothing survives a restart.
type InMemoryRepositoryManager struct {
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}
