// Package session issues bearer tokens for browser sessions and owns one
// engine (plus its identity observer and notice log) per session.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"sync"
	"time"

	"github.com/Rishusingh18/industrie24/internal/cache"
	"github.com/Rishusingh18/industrie24/internal/engine"
	"github.com/Rishusingh18/industrie24/internal/identity"
	"github.com/Rishusingh18/industrie24/internal/remote"
	"github.com/google/uuid"
)

// Session binds a token to its engine. Signing out does not end the session;
// the browser keeps its token and the engine resets to an empty snapshot.
type Session struct {
	Token     string
	ProfileID string
	Engine    *engine.Engine
	Identity  *identity.Observer
	Notices   *engine.NoticeLog
	ExpiresAt time.Time
}

// Deps is what the manager needs to assemble an engine per session.
type Deps struct {
	Cache          cache.Store
	Remote         remote.Store
	Logger         *log.Logger
	TTL            time.Duration
	RetryLimit     int
	QueueSize      int
	RetryBaseDelay time.Duration
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     Deps
}

func NewManager(deps Deps) *Manager {
	if deps.TTL <= 0 {
		deps.TTL = 12 * time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
	}
}

// Create issues a new session with a fresh profile and an empty-or-cached
// engine. The profile id doubles as the local-cache key.
func (m *Manager) Create() (*Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	profileID := uuid.NewString()

	notices := engine.NewNoticeLog(32)
	eng := engine.New(engine.Config{
		ProfileID:      profileID,
		Cache:          m.deps.Cache,
		Remote:         m.deps.Remote,
		Logger:         m.deps.Logger,
		Notifier:       notices,
		RetryLimit:     m.deps.RetryLimit,
		QueueSize:      m.deps.QueueSize,
		RetryBaseDelay: m.deps.RetryBaseDelay,
	})
	obs := identity.NewObserver()
	obs.Subscribe(eng.HandleIdentity)

	s := &Session{
		Token:     token,
		ProfileID: profileID,
		Engine:    eng,
		Identity:  obs,
		Notices:   notices,
		ExpiresAt: time.Now().Add(m.deps.TTL),
	}
	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return s, nil
}

// Lookup resolves a token, evicting it when expired.
func (m *Manager) Lookup(token string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[token]
	if ok && time.Now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		m.mu.Unlock()
		s.Engine.Close()
		return nil, false
	}
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	return s, true
}

// Close shuts down every session's engine, draining their outboxes.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Engine.Close()
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
