package session

import (
	"context"
	"sync"
	"time"

	"github.com/deskmesh/deskmesh/core"
)

// InMemoryStore is a volatile ConversationStore keeping conversations in a
// process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo runs. Every returned conversation is cloned to
// prevent external mutation of internal state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.Conversation
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*core.Conversation)}
}

// Get returns a clone of the stored conversation or core.ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, id string) (*core.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return conv.Clone(), nil
}

// Save stores a clone of the provided conversation snapshot.
func (s *InMemoryStore) Save(_ context.Context, conv *core.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := conv.Clone()
	clone.Updated = time.Now()
	s.conversations[conv.ID] = clone
	return nil
}
