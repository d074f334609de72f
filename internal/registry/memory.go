package registry

import (
	"context"
	"sync"
	"time"
)

// Memory is the default in-process Registry.
type Memory struct {
	mu      sync.RWMutex
	users   []int64
	seen    map[int64]struct{}
	log     []Entry
	logCap  int
	total   int
	nowFunc func() time.Time
}

// NewMemory constructs a Memory registry with the given request-log bound.
func NewMemory(logCap int) *Memory {
	if logCap <= 0 {
		logCap = 1000
	}
	return &Memory{
		seen:    make(map[int64]struct{}),
		logCap:  logCap,
		nowFunc: time.Now,
	}
}

// AddUser records a user once; repeated calls are no-ops.
func (m *Memory) AddUser(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[userID]; ok {
		return nil
	}
	m.seen[userID] = struct{}{}
	m.users = append(m.users, userID)
	return nil
}

// Users returns registered user IDs in first-seen order.
func (m *Memory) Users(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int64, len(m.users))
	copy(out, m.users)
	return out, nil
}

// UserCount returns the number of registered users.
func (m *Memory) UserCount(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// LogRequest appends to the bounded request log, evicting oldest entries.
func (m *Memory) LogRequest(_ context.Context, userID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, Entry{At: m.nowFunc(), UserID: userID, Text: text})
	if len(m.log) > m.logCap {
		m.log = m.log[len(m.log)-m.logCap:]
	}
	m.total++
	return nil
}

// RecentRequests returns up to limit newest entries, newest first.
func (m *Memory) RecentRequests(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.log) {
		limit = len(m.log)
	}
	out := make([]Entry, 0, limit)
	for i := len(m.log) - 1; i >= len(m.log)-limit; i-- {
		out = append(out, m.log[i])
	}
	return out, nil
}

// RequestCount returns the total number of logged requests, including
// entries already evicted from the bounded window.
func (m *Memory) RequestCount(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total, nil
}
