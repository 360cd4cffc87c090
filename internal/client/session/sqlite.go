package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/agentdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/agentdesk/internal/common"
	"github.com/dmitrijs2005/agentdesk/internal/dbx"
)

// SQLiteStore persists the session as three rows of the metadata table and
// serves reads from an in-memory snapshot. The snapshot is replaced only
// after the write transaction commits, so Get never blocks on the database
// and never sees a half-written session.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	snap atomic.Pointer[State]
}

// NewSQLiteStore loads the persisted session from db. A partially persisted
// session (e.g. a user row without tokens) is treated as absent and removed.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) load(ctx context.Context) error {
	repo := metadata.NewSQLiteRepository(s.db)

	rows, err := repo.GetMany(ctx, KeyAccessToken, KeyRefreshToken, KeyUser)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	st, ok := decodeState(rows[KeyAccessToken], rows[KeyRefreshToken], rows[KeyUser])
	if !ok {
		return s.Clear(ctx)
	}
	s.snap.Store(st)
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context) (*State, error) {
	p := s.snap.Load()
	if p == nil {
		return nil, nil
	}
	st := *p
	return &st, nil
}

func (s *SQLiteStore) Set(ctx context.Context, pair CredentialPair, user User) error {
	if err := validate(pair, user); err != nil {
		return err
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, []byte(pair.AccessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyRefreshToken, []byte(pair.RefreshToken)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, userJSON)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.snap.Store(&State{Pair: pair, User: user})
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, KeyAccessToken, KeyRefreshToken, KeyUser)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.snap.Store(nil)
	return nil
}

func (s *SQLiteStore) AccessToken(ctx context.Context) (string, error) {
	if p := s.snap.Load(); p != nil {
		return p.Pair.AccessToken, nil
	}
	return "", nil
}

func (s *SQLiteStore) RefreshToken(ctx context.Context) (string, error) {
	if p := s.snap.Load(); p != nil {
		return p.Pair.RefreshToken, nil
	}
	return "", nil
}

// decodeState rebuilds a State from its persisted entries. Token type and
// lifetime are not persisted; a restored pair is always a bearer pair with
// unknown lifetime.
func decodeState(access, refresh, userJSON []byte) (*State, bool) {
	if len(access) == 0 || len(userJSON) == 0 {
		return nil, false
	}
	var user User
	if err := json.Unmarshal(userJSON, &user); err != nil || user.ID == "" {
		return nil, false
	}
	return &State{
		Pair: CredentialPair{
			AccessToken:  string(access),
			RefreshToken: string(refresh),
			TokenType:    common.TokenTypeBearer,
		},
		User: user,
	}, true
}
