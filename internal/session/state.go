// Package session owns the CSRF token and login state shared by every call on a client.
package session

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eshaffer321/hilink-go/internal/types"
)

// Acquirer obtains a fresh token from the device.
type Acquirer interface {
	Acquire(ctx context.Context) (string, error)
}

// State is a point-in-time copy of the session.
type State struct {
	CSRFToken       string    `json:"-"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	Username        string    `json:"username,omitempty"`
	LastAuthTime    time.Time `json:"lastAuthTime,omitempty"`
}

// Manager guards the session state. Network I/O never happens while the lock is held.
type Manager struct {
	mu    sync.RWMutex
	state State

	acquirer Acquirer
	logger   types.Logger
	now      func() time.Time
}

// NewManager creates a manager with an empty session.
func NewManager(acquirer Acquirer, logger types.Logger) *Manager {
	return &Manager{
		acquirer: acquirer,
		logger:   types.LoggerOrNop(logger),
		now:      time.Now,
	}
}

// GetToken returns the cached token, acquiring one first if none is cached.
func (m *Manager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	token := m.state.CSRFToken
	m.mu.RUnlock()

	if token != "" {
		return token, nil
	}
	return m.refresh(ctx)
}

// ForceRefresh acquires a new token and replaces whatever is cached.
func (m *Manager) ForceRefresh(ctx context.Context) (string, error) {
	return m.refresh(ctx)
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	token, err := m.acquirer.Acquire(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", types.NewSessionError("device returned an empty token", nil)
	}
	// cancelled while acquiring: drop the result
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.state.CSRFToken = token
	m.mu.Unlock()

	m.logger.Debug("csrf token cached")
	return token, nil
}

// Invalidate clears the token and the login state.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.state = State{}
	m.mu.Unlock()
}

// MarkAuthenticated records a successful login.
func (m *Manager) MarkAuthenticated(username string) {
	m.mu.Lock()
	m.state.IsAuthenticated = true
	m.state.Username = username
	m.state.LastAuthTime = m.now()
	m.mu.Unlock()
}

// IsExpired reports whether the session never authenticated or authenticated
// longer than maxAge ago.
func (m *Manager) IsExpired(maxAge time.Duration) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.state.IsAuthenticated || m.state.LastAuthTime.IsZero() {
		return true
	}
	return m.now().Sub(m.state.LastAuthTime) > maxAge
}

// UpdateFromHeaders caches a token the device rotated through response
// headers. It reports whether one was found.
func (m *Manager) UpdateFromHeaders(h http.Header) bool {
	token := TokenFromHeaders(h)
	if token == "" {
		return false
	}

	m.mu.Lock()
	m.state.CSRFToken = token
	m.mu.Unlock()
	return true
}

// IsAuthenticated reports whether a login succeeded and was not invalidated since.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsAuthenticated
}

// Username returns the logged-in username, if any.
func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Username
}

// LastAuthTime returns when the session last authenticated.
func (m *Manager) LastAuthTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LastAuthTime
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// TokenFromHeaders returns the first non-empty rotated token header.
func TokenFromHeaders(h http.Header) string {
	for _, name := range types.RotatedTokenHeaders {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
