package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"floorplan/internal/editor/scene"

	"github.com/google/uuid"
)

// ============================================================
// Session Manager
// ============================================================

var ErrSessionNotFound = errors.New("session not found")

// Session: один редактор. Контроллер однопоточный, поэтому все
// обращения к нему идут под mu сессии.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	ctrl     *scene.Controller
	lastUsed time.Time
}

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session // id -> session
	opts     scene.Options
}

func NewSessionManager(opts scene.Options) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create открывает сессию с пустой сценой или шаблоном.
func (m *SessionManager) Create(template string) (*Session, error) {
	ctrl, err := scene.New(m.opts)
	if err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	if template != "" {
		if err := ctrl.LoadTemplate(template); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	s := &Session{ID: uuid.NewString(), CreatedAt: now, ctrl: ctrl, lastUsed: now}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s, nil
}

func (m *SessionManager) Resolve(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	return s, ok
}

// Do выполняет fn над контроллером сессии, сериализуя конкурентные запросы.
func (m *SessionManager) Do(id string, fn func(*scene.Controller) error) error {
	s, ok := m.Resolve(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn(s.ctrl)
}

func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Expire закрывает сессии, простаивающие дольше idle. Возвращает число закрытых.
func (m *SessionManager) Expire(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	closed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		stale := s.lastUsed.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(m.sessions, id)
			closed++
		}
	}
	return closed
}
