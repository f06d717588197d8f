package speech

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrClipNotFound = errors.New("audio clip not found")

// Clip is one generated audio asset held for playback.
type Clip struct {
	ID     string
	Data   []byte
	Format string
}

// ClipStore keeps generated audio in memory for the life of the browsing
// session, addressed by id so handlers can serve it by URL.
type ClipStore struct {
	mu    sync.RWMutex
	clips map[string]Clip
}

// NewClipStore returns an empty store.
func NewClipStore() *ClipStore {
	return &ClipStore{clips: make(map[string]Clip)}
}

// Put stores audio and returns the generated clip id.
func (s *ClipStore) Put(data []byte, format string) string {
	clip := Clip{ID: uuid.NewString(), Data: data, Format: format}

	s.mu.Lock()
	s.clips[clip.ID] = clip
	s.mu.Unlock()

	return clip.ID
}

// Get looks up a clip by id.
func (s *ClipStore) Get(id string) (Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clip, ok := s.clips[id]
	if !ok {
		return Clip{}, ErrClipNotFound
	}
	return clip, nil
}
