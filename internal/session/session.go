// Package session wraps the ambient bearer token behind an injectable
// provider so every component reads the same source and tests can
// substitute a fake without touching shared storage.
package session

import "sync"

// Provider exposes the current bearer token. Absence means the anonymous,
// unauthenticated state; it is an expected state, never an error.
type Provider interface {
	Token() (string, bool)
}

// Memory is the process-wide token holder. Writes happen only in the login
// and logout flows; everything else reads. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	token string
	subs  []func(token string, present bool)
}

// NewMemory returns an empty (unauthenticated) holder.
func NewMemory() *Memory {
	return &Memory{}
}

// Token returns the current token and whether one is present.
func (m *Memory) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// Set stores the token issued at login and notifies subscribers.
func (m *Memory) Set(token string) {
	m.mu.Lock()
	m.token = token
	subs := append([]func(string, bool){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(token, token != "")
	}
}

// Clear drops the token at logout and notifies subscribers.
func (m *Memory) Clear() {
	m.Set("")
}

// OnChange registers a callback invoked after every Set or Clear.
func (m *Memory) OnChange(fn func(token string, present bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}
