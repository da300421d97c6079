package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// InMemoryRepositoryManager vends non-persistent repositories and ignores the
// DBTX argument. It exists for running the server without a database; all
// state is lost on restart.
type InMemoryRepositoryManager struct {
	users users.Repository
	tasks tasks.Repository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return m.tasks
}

// NewInMemoryRepositoryManager constructs a manager over in-memory stores.
func NewInMemoryRepositoryManager(u users.Repository, t tasks.Repository) RepositoryManager {
	return &InMemoryRepositoryManager{users: u, tasks: t}
}
