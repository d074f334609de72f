package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a process-local map. Sessions live until
// process teardown; there is no eviction path.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*UserSession

	defaultLanguage string
	onFirstSeen     func(userID int64)
}

// MemoryOptions configures a MemoryStore.
type MemoryOptions struct {
	DefaultLanguage string
	// OnFirstSeen fires once per user, on lazy session creation.
	OnFirstSeen func(userID int64)
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore(opts MemoryOptions) *MemoryStore {
	lang := opts.DefaultLanguage
	if lang == "" {
		lang = "uz"
	}
	return &MemoryStore{
		sessions:        make(map[int64]*UserSession),
		defaultLanguage: lang,
		onFirstSeen:     opts.OnFirstSeen,
	}
}

func (m *MemoryStore) locked(userID int64) *UserSession {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &UserSession{
			UserID:             userID,
			Pending:            PendingNone,
			LanguagePreference: m.defaultLanguage,
		}
		m.sessions[userID] = sess
		if m.onFirstSeen != nil {
			m.onFirstSeen(userID)
		}
	}
	return sess
}

// Get returns a copy of the user's session, creating it if absent.
func (m *MemoryStore) Get(_ context.Context, userID int64) (UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.locked(userID)
	return cloneSession(sess), nil
}

// Update applies mutate under the store lock and returns the resulting state.
func (m *MemoryStore) Update(_ context.Context, userID int64, mutate func(*UserSession)) (UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.locked(userID)
	if mutate != nil {
		mutate(sess)
	}
	return cloneSession(sess), nil
}

// Len reports the number of tracked sessions (for diagnostics).
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func cloneSession(s *UserSession) UserSession {
	out := *s
	if len(s.History) > 0 {
		out.History = make([]Turn, len(s.History))
		copy(out.History, s.History)
	}
	return out
}
