package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// DefaultSessionID is used when no session id is given
const DefaultSessionID = "default"

// WindowMemory keeps the most recent maxMessages messages of one session.
// At most one system message is kept; it is never evicted and a new one
// replaces the previous.
type WindowMemory struct {
	mu          sync.Mutex
	maxMessages int
	store       Store
	sessionID   string
}

// NewWindowMemory creates a WindowMemory backed by store. A nil store means
// an InMemoryStore.
func NewWindowMemory(maxMessages int, store Store, sessionID string) (*WindowMemory, error) {
	if maxMessages < 1 {
		return nil, fmt.Errorf("max messages must be at least 1, got %d", maxMessages)
	}
	if store == nil {
		store = NewInMemoryStore()
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	return &WindowMemory{
		maxMessages: maxMessages,
		store:       store,
		sessionID:   sessionID,
	}, nil
}

// SessionID returns the session the memory writes to
func (m *WindowMemory) SessionID() string {
	return m.sessionID
}

// Add appends msg and evicts the oldest messages beyond the window
func (m *WindowMemory) Add(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages, err := m.store.Messages(ctx, m.sessionID)
	if err != nil {
		return fmt.Errorf("failed to read memory: %w", err)
	}

	if msg.Role == RoleSystem {
		idx := slices.IndexFunc(messages, func(m Message) bool { return m.Role == RoleSystem })
		if idx >= 0 {
			if messages[idx].Content == msg.Content {
				return nil
			}
			messages = slices.Delete(messages, idx, idx+1)
		}
	}

	messages = append(messages, msg)
	for len(messages) > m.maxMessages {
		evict := 0
		if messages[0].Role == RoleSystem {
			evict = 1
		}
		if evict >= len(messages) {
			break
		}
		messages = slices.Delete(messages, evict, evict+1)
	}

	if err := m.store.Update(ctx, m.sessionID, messages); err != nil {
		return fmt.Errorf("failed to write memory: %w", err)
	}
	return nil
}

// Messages returns the messages in the window, oldest first
func (m *WindowMemory) Messages(ctx context.Context) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages, err := m.store.Messages(ctx, m.sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory: %w", err)
	}
	return messages, nil
}

// Clear forgets the whole session
func (m *WindowMemory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(ctx, m.sessionID)
}
