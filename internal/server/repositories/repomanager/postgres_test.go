package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/agentdesk/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/agentdesk/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager()

	if _, ok := m.Users(db).(*users.PostgresRepository); !ok {
		t.Fatal("Users() is not a PostgresRepository")
	}
	if _, ok := m.RefreshTokens(db).(*refreshtokens.PostgresRepository); !ok {
		t.Fatal("RefreshTokens() is not a PostgresRepository")
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUp
	var got *sql.DB
	gooseUp = func(ctx context.Context, d *sql.DB) error {
		got = d
		return nil
	}
	defer func() { gooseUp = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if got != db {
		t.Fatal("migrations ran against a different db")
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUp
	gooseUp = func(ctx context.Context, db *sql.DB) error {
		return errors.New("boom")
	}
	defer func() { gooseUp = orig }()

	m := &PostgresRepositoryManager{}
	err := m.RunMigrations(context.Background(), db)
	if err == nil || err.Error() != "migrations: boom" {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestInMemoryManager_SharesRepositories(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), nil))
	require.Same(t, m.Users(nil), m.Users(nil))
	require.Same(t, m.RefreshTokens(nil), m.RefreshTokens(nil))

	var _ RepositoryManager = m
}
