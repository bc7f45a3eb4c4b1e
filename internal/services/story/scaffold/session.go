package scaffold

import "sync"

// Session serializes access to a Scaffold. Reads share the lock; writes,
// reloads, and cascades hold it exclusively so no reader observes a partial
// change.
type Session struct {
	mu       sync.RWMutex
	scaffold *Scaffold
}

// NewSession wraps s.
func NewSession(s *Scaffold) *Session {
	return &Session{scaffold: s}
}

// View runs fn under the shared lock. fn must not mutate the scaffold.
func (x *Session) View(fn func(*Scaffold) error) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return fn(x.scaffold)
}

// Update runs fn under the exclusive lock.
func (x *Session) Update(fn func(*Scaffold) error) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return fn(x.scaffold)
}
