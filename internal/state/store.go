package state

import (
	"context"
	"sync"
)

// SessionStore keeps sessions between events. Get returns a fresh Idle
// session for users it has never seen.
type SessionStore interface {
	GetSession(ctx context.Context, user UserID) (*Session, error)
	SetSession(ctx context.Context, user UserID, session *Session) error
	ClearSession(ctx context.Context, user UserID) error
}

type InMemorySessionStore struct {
	mu    sync.Mutex
	store map[UserID]Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{store: make(map[UserID]Session)}
}

func (i *InMemorySessionStore) GetSession(_ context.Context, user UserID) (*Session, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	session, exists := i.store[user]
	if !exists {
		return NewSession(), nil
	}
	return &session, nil
}

func (i *InMemorySessionStore) SetSession(_ context.Context, user UserID, session *Session) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if session.IsIdle() {
		delete(i.store, user)
		return nil
	}
	i.store[user] = *session
	return nil
}

func (i *InMemorySessionStore) ClearSession(_ context.Context, user UserID) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.store, user)
	return nil
}

func (i *InMemorySessionStore) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.store)
}
