package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/orviss/podium/backend/internal/model/feedback"
)

var ErrSessionNotFound = errors.New("conversation not found")

// Manager owns the sessions of this process. The registry holds a single
// feedback document at a time, so at most one session is "current"; older
// sessions stay reachable by id until the process ends.
type Manager struct {
	svc ChatService

	mu      sync.Mutex
	current *Session
	byID    map[string]*Session
}

// NewManager creates a session manager backed by the given chat service.
func NewManager(svc ChatService) *Manager {
	return &Manager{svc: svc, byID: make(map[string]*Session)}
}

// Start initializes a session for doc, reusing the current one when it
// already has a conversation id or an init in flight. This is the
// duplicate-start guard for repeated client retries.
func (m *Manager) Start(ctx context.Context, doc *feedback.Document) (*Session, error) {
	m.mu.Lock()
	session := m.current
	if session == nil || session.InitFailure() != "" {
		session = NewSession(m.svc)
		m.current = session
	}
	m.mu.Unlock()

	if err := session.Init(ctx, doc); err != nil {
		return session, err
	}

	m.mu.Lock()
	if id := session.ConversationID(); id != "" {
		m.byID[id] = session
	}
	m.mu.Unlock()
	return session, nil
}

// Get looks up a session by conversation id.
func (m *Manager) Get(conversationID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.byID[conversationID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
