package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// Store implements ports.TranscriptStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Save stores the transcript content.
func (s *Store) Save(ctx context.Context, name string, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = content
	return nil
}

// Load retrieves the transcript content.
func (s *Store) Load(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.data[name]
	if !ok {
		return "", domain.ErrTranscriptNotFound
	}
	return content, nil
}

// Delete removes the transcript.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored transcript names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
