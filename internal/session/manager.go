// Package session keys live interviews by ID and expires the ones that
// go quiet. Sessions exist only in memory; a finished or expired session
// is gone.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"intellicare/internal/intake"
	"intellicare/internal/llm"
	"intellicare/internal/logging"
)

const defaultIdleTimeout = 30 * time.Minute

// Session pairs an orchestrator with the bookkeeping the manager needs.
// Lock serializes chat turns; the orchestrator itself is not
// concurrency-safe.
type Session struct {
	ID           string
	Orchestrator *intake.Orchestrator

	mu         sync.Mutex
	lastActive time.Time
}

// Lock takes the per-session lock and refreshes the idle clock.
func (s *Session) Lock() {
	s.mu.Lock()
	s.lastActive = time.Now()
}

func (s *Session) Unlock() { s.mu.Unlock() }

// Manager owns all live sessions.
type Manager struct {
	llm         llm.Client
	idleTimeout time.Duration
	log         *zap.Logger

	// MaxTurns, when positive, overrides the interview turn limit on
	// every session the manager creates. Set before serving traffic.
	MaxTurns int

	mu       sync.Mutex
	sessions map[string]*Session

	stop chan struct{}
	once sync.Once
}

// NewManager starts a manager and its background expiry sweep.
func NewManager(client llm.Client, idleTimeout time.Duration) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}
	m := &Manager{
		llm:         client,
		idleTimeout: idleTimeout,
		log:         logging.With(zap.String("component", "sessions")),
		sessions:    make(map[string]*Session),
		stop:        make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Create starts a new session and returns it.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:           uuid.NewString(),
		Orchestrator: intake.NewOrchestrator(m.llm),
		lastActive:   time.Now(),
	}
	if m.MaxTurns > 0 {
		s.Orchestrator.SetMaxTurns(m.MaxTurns)
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.log.Info("session created", zap.String("session_id", s.ID))
	return s
}

// Get returns the session for id, or nil if it doesn't exist.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// GetOrCreate resolves id to a live session, creating one when id is
// empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s := m.Get(id); s != nil {
			return s
		}
	}
	return m.Create()
}

// Delete removes a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		m.log.Info("session deleted", zap.String("session_id", id))
	}
	return ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the expiry sweep.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.expire(now)
		}
	}
}

func (m *Manager) expire(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastActive)
		s.mu.Unlock()
		if idle > m.idleTimeout {
			delete(m.sessions, id)
			m.log.Info("session expired", zap.String("session_id", id), zap.Duration("idle", idle))
		}
	}
}
