package store

import (
	"sort"
	"sync"
	"time"
)

// Region is a shared key-value namespace.
type Region interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Keys() ([]string, error)
	UpdatedAt(key string) (time.Time, error)
}

var (
	_ Region = (*SQLite)(nil)
	_ Region = (*Memory)(nil)
	_ Region = unavailable{}
)

// Memory is an in-process Region for tests and --ephemeral runs.
type Memory struct {
	mu      sync.RWMutex
	values  map[string][]byte
	updated map[string]time.Time
}

// NewMemory returns an empty in-memory region.
func NewMemory() *Memory {
	return &Memory{
		values:  make(map[string][]byte),
		updated: make(map[string]time.Time),
	}
}

// Get implements Region.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements Region.
func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	m.updated[key] = time.Now()
	return nil
}

// Keys implements Region.
func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// UpdatedAt implements Region.
func (m *Memory) UpdatedAt(key string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updated[key], nil
}

// unavailable stands in for a region that could not be opened.
type unavailable struct {
	cause error
}

// Unavailable returns a Region whose every call fails with ErrUnavailable
// wrapping cause.
func Unavailable(cause error) Region {
	return unavailable{cause: cause}
}

func (u unavailable) err() error {
	return &Error{Kind: ErrUnavailable, Err: u.cause}
}

func (u unavailable) Get(string) ([]byte, bool, error) { return nil, false, u.err() }
func (u unavailable) Set(string, []byte) error { return u.err() }
func (u unavailable) Keys() ([]string, error) { return nil, u.err() }
func (u unavailable) UpdatedAt(string) (time.Time, error) { return time.Time{}, u.err() }
