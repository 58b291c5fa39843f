package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager tracks live sessions. Sessions are in-memory only; nothing
// survives a restart. Idle sessions age out lazily: Create sweeps for
// expired entries instead of running a background reaper.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	total    int
	interval time.Duration
}

// NewManager returns a manager for sessions over a table of total bars.
func NewManager(ttl time.Duration, total int, interval time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		total:    total,
		interval: interval,
	}
}

// Create registers a new session and returns it. Expired sessions found
// during the sweep are returned so the caller can stop their tickers.
func (m *Manager) Create() (*Session, []*Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expired := m.pruneLocked(time.Now())
	s := New(uuid.New().String(), m.total, m.interval)
	m.sessions[s.ID()] = s
	return s, expired
}

// Get returns the session and touches its idle clock.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.Touch()
	}
	return s, ok
}

// Delete removes a session, returning it so the caller can stop its ticker.
func (m *Manager) Delete(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) pruneLocked(now time.Time) []*Session {
	if m.ttl <= 0 {
		return nil
	}
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	return expired
}
