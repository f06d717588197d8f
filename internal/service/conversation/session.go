// Package conversation drives the interactive Q&A session scoped to one
// feedback document.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/orviss/podium/backend/internal/model/chat"
	"github.com/orviss/podium/backend/internal/model/feedback"
)

var (
	ErrNotReady     = errors.New("conversation is not ready for messages")
	ErrEmptyMessage = errors.New("message is empty")
)

// errorReply replaces the assistant turn when a send fails; the raw service
// error is logged, not shown.
const errorReply = "Sorry, I encountered an error. Please try again."

// ChatService is the external Q&A backend. Implementations must be safe for
// concurrent use; the session itself guarantees at most one outstanding
// call per session.
type ChatService interface {
	StartChat(ctx context.Context, doc *feedback.Document) (conversationID, greeting string, err error)
	SendMessage(ctx context.Context, conversationID, text string) (reply string, err error)
}

// Session is the per-document conversation state machine:
// uninitialized -> initializing -> ready <-> sending, with init_error
// reachable only from initializing.
type Session struct {
	svc ChatService

	mu             sync.Mutex
	status         chat.Status
	conversationID string
	doc            *feedback.Document
	messages       []chat.Message
	initFailure    string
}

// NewSession returns an uninitialized session backed by the given service.
func NewSession(svc ChatService) *Session {
	return &Session{svc: svc, status: chat.StatusUninitialized}
}

// Init starts the conversation for doc. Duplicate calls while an init is in
// flight, or after a conversation id exists, are no-ops; a failed init may
// be retried with a fresh call.
func (s *Session) Init(ctx context.Context, doc *feedback.Document) error {
	s.mu.Lock()
	if s.status == chat.StatusInitializing || s.conversationID != "" {
		s.mu.Unlock()
		return nil
	}
	s.status = chat.StatusInitializing
	s.doc = doc
	s.initFailure = ""
	s.mu.Unlock()

	conversationID, greeting, err := s.svc.StartChat(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = chat.StatusInitError
		s.initFailure = err.Error()
		return err
	}

	s.conversationID = conversationID
	s.messages = append(s.messages, chat.Message{Role: chat.RoleAssistant, Content: greeting})
	s.status = chat.StatusReady
	return nil
}

// Send submits a user message. The user turn is appended before the service
// call and never rolled back; a failed call appends a synthetic assistant
// turn instead of surfacing the error. Sends while not ready (including
// while another send is in flight) are rejected without touching state.
func (s *Session) Send(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.status != chat.StatusReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.messages = append(s.messages, chat.Message{Role: chat.RoleUser, Content: trimmed})
	s.status = chat.StatusSending
	conversationID := s.conversationID
	s.mu.Unlock()

	reply, err := s.svc.SendMessage(ctx, conversationID, trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		reply = errorReply
	}
	s.messages = append(s.messages, chat.Message{Role: chat.RoleAssistant, Content: reply})
	s.status = chat.StatusReady
	return nil
}

// Status returns the current lifecycle state.
func (s *Session) Status() chat.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ConversationID returns the id assigned by the chat service, empty until
// init succeeds.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Messages returns a copy of the transcript in submission order.
func (s *Session) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// InitFailure returns the recorded init error text, empty when none.
func (s *Session) InitFailure() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initFailure
}
