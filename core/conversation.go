package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Conversation is the persisted remainder of a turn: the message history and
// the trace of the most recent turn, keyed by conversation id. Derived turn
// state (classification, hits, tool calls) is deliberately not persisted —
// every turn recomputes it from scratch.
type Conversation struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
	Trace    []string  `json:"trace,omitempty"`
	Updated  time.Time `json:"updated"`
}

// Clone returns a deep copy safe for independent mutation.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{ID: c.ID, Updated: c.Updated}
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	clone.Trace = make([]string, len(c.Trace))
	copy(clone.Trace, c.Trace)
	return clone
}

// ConversationStore persists conversations across turns. The orchestrator
// reads before init and writes after finalize; implementations must not be
// relied on for same-conversation turn ordering — the orchestrator
// serializes those itself.
type ConversationStore interface {
	// Get returns the stored conversation or ErrNotFound.
	Get(ctx context.Context, id string) (*Conversation, error)

	// Save stores the conversation snapshot, overwriting any previous state.
	Save(ctx context.Context, conv *Conversation) error
}

// HistorySummarizer condenses a user's prior ticket history into a short
// text used to augment knowledge retrieval. Implementations return the
// empty string — never an error surfaced to the turn — when no history is
// available or the backing store is unreachable.
type HistorySummarizer interface {
	Summarize(ctx context.Context, userID string) string
}
