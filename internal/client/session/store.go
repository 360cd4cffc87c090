package session

import (
	"context"
	"sync"
)

// Store persists Session State.
//
// Get returns (nil, nil) when no session is present. Set overwrites any prior
// state atomically with respect to concurrent readers. Clear is idempotent.
// AccessToken and RefreshToken return "" when no session is present.
type Store interface {
	Get(ctx context.Context) (*State, error)
	Set(ctx context.Context, pair CredentialPair, user User) error
	Clear(ctx context.Context) error
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	state *State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(ctx context.Context) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, nil
	}
	st := *m.state
	return &st, nil
}

func (m *MemoryStore) Set(ctx context.Context, pair CredentialPair, user User) error {
	if err := validate(pair, user); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &State{Pair: pair, User: user}
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

func (m *MemoryStore) AccessToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return "", nil
	}
	return m.state.Pair.AccessToken, nil
}

func (m *MemoryStore) RefreshToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return "", nil
	}
	return m.state.Pair.RefreshToken, nil
}
