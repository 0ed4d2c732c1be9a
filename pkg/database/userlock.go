package database

import "sync"

// UserLock serializes mutations per user id. Operations on the same user
// block each other; operations on different users never do. The lock is
// held across the severity prompt, so a single entry can stay locked for
// minutes — entries are reference counted and dropped when idle so the map
// does not grow with every user ever warned.
type UserLock struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewUserLock creates an empty UserLock.
func NewUserLock() *UserLock {
	return &UserLock{entries: make(map[string]*lockEntry)}
}

// Lock acquires the exclusive scope for userID and returns the release
// function. The release function must be called on every exit path.
func (l *UserLock) Lock(userID string) func() {
	l.mu.Lock()
	entry, ok := l.entries[userID]
	if !ok {
		entry = &lockEntry{}
		l.entries[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.entries, userID)
			}
			l.mu.Unlock()
		})
	}
}
