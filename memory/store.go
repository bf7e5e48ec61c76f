package memory

import (
	"context"
	"slices"
	"sync"
)

// Store persists the messages of chat sessions. Update replaces the whole
// list of a session.
type Store interface {
	Messages(ctx context.Context, sessionID string) ([]Message, error)
	Update(ctx context.Context, sessionID string, messages []Message) error
	Delete(ctx context.Context, sessionID string) error
}

// InMemoryStore keeps sessions in a map
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
}

// NewInMemoryStore creates an empty InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string][]Message),
	}
}

// Messages returns a copy of the session's messages
func (s *InMemoryStore) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sessions[sessionID]), nil
}

// Update replaces the session's messages
func (s *InMemoryStore) Update(ctx context.Context, sessionID string, messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = slices.Clone(messages)
	return nil
}

// Delete removes the session
func (s *InMemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
