package backend

import (
	"context"
	"sync"
)

// MemoryBackend is a process-local AccountStore and TicketLog. It is safe
// for concurrent access and is the default backing for tests and local
// development; production wiring substitutes the Postgres implementations.
type MemoryBackend struct {
	mu       sync.RWMutex
	accounts map[string]*AccountRecord // email -> record
	tickets  map[string][]Note         // ticketID -> notes, oldest first
	owners   map[string][]string       // userID -> ticketIDs, insertion order
}

// NewMemoryBackend constructs an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		accounts: make(map[string]*AccountRecord),
		tickets:  make(map[string][]Note),
		owners:   make(map[string][]string),
	}
}

// AddAccount seeds an account record keyed by its user email.
func (m *MemoryBackend) AddAccount(rec AccountRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := rec
	m.accounts[rec.User.Email] = &clone
}

// Lookup implements AccountStore.
func (m *MemoryBackend) Lookup(_ context.Context, email string) (*AccountRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.accounts[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *rec
	return &clone, nil
}

// OpenTicket associates a ticket id with a user so Recent can find it.
func (m *MemoryBackend) OpenTicket(userID, ticketID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[userID] = append(m.owners[userID], ticketID)
}

// AppendNote implements TicketLog.
func (m *MemoryBackend) AppendNote(_ context.Context, ticketID, role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[ticketID] = append(m.tickets[ticketID], Note{TicketID: ticketID, Role: role, Content: content})
	return nil
}

// Recent implements TicketLog. Notes come back newest first within each of
// the user's tickets.
func (m *MemoryBackend) Recent(_ context.Context, userID string, perTicket int) ([]Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Note
	for _, ticketID := range m.owners[userID] {
		notes := m.tickets[ticketID]
		for i := len(notes) - 1; i >= 0 && len(notes)-1-i < perTicket; i-- {
			out = append(out, notes[i])
		}
	}
	return out, nil
}
