// Package registry holds the media references and feedback document for the
// current submission. Keys are written once per submission and read many
// times; an explicit Reset clears everything for the next recording.
package registry

import (
	"errors"
	"sync"
)

// Key enumerates the fixed set of registry slots.
type Key string

const (
	KeyPlaybackURL      Key = "playback_url"
	KeyOriginalURL      Key = "original_url"
	KeyOriginalFilename Key = "original_filename"
	KeyOriginalMIMEType Key = "original_mime_type"
	KeyFeedbackDocument Key = "feedback_document"
)

var knownKeys = map[Key]struct{}{
	KeyPlaybackURL:      {},
	KeyOriginalURL:      {},
	KeyOriginalFilename: {},
	KeyOriginalMIMEType: {},
	KeyFeedbackDocument: {},
}

var (
	ErrUnknownKey     = errors.New("unknown registry key")
	ErrAlreadyWritten = errors.New("registry key already written for this submission")
)

// Store exposes the submission registry to services and handlers.
type Store interface {
	Set(key Key, value string) error
	Get(key Key) (string, bool)
	Reset()
}

// MemoryStore implements Store in memory, scoped to the process lifetime.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[Key]string
}

// NewMemoryStore returns an empty registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]string, len(knownKeys))}
}

// Set records a value for a key. Each key accepts exactly one write per
// submission; overwriting requires a Reset first.
func (s *MemoryStore) Set(key Key, value string) error {
	if _, ok := knownKeys[key]; !ok {
		return ErrUnknownKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[key]; exists {
		return ErrAlreadyWritten
	}
	s.values[key] = value
	return nil
}

// Get returns the stored value and whether it has been written.
func (s *MemoryStore) Get(key Key) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Reset clears every slot for a fresh submission.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[Key]string, len(knownKeys))
}
