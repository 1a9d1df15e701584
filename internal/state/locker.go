package state

import "sync"

// Locker serializes work per user. Different users never wait on each other.
type Locker struct {
	mu    sync.Mutex
	locks map[UserID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[UserID]*userLock)}
}

// Lock blocks until the user's critical section is free and returns the
// function that releases it.
func (l *Locker) Lock(user UserID) func() {
	l.mu.Lock()
	ul, exists := l.locks[user]
	if !exists {
		ul = &userLock{}
		l.locks[user] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, user)
		}
		l.mu.Unlock()
	}
}

func (l *Locker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
