// Package notify hands escalated turns off to humans. The orchestrator
// publishes the escalation packet after finalize; by the turn contract a
// publish failure may be logged but never surfaces to the user.
package notify

import (
	"context"

	"github.com/deskmesh/deskmesh/core"
)

// Escalation is the published hand-off record.
type Escalation struct {
	ConversationID string                `json:"conversation_id"`
	TicketID       string                `json:"ticket_id,omitempty"`
	Packet         core.EscalationPacket `json:"packet"`
}

// EscalationPublisher delivers escalations to a human support queue.
type EscalationPublisher interface {
	PublishEscalation(ctx context.Context, esc Escalation) error
}

// NoopPublisher discards all escalations. It is the default when no queue
// is wired.
type NoopPublisher struct{}

// PublishEscalation implements EscalationPublisher.
func (NoopPublisher) PublishEscalation(context.Context, Escalation) error { return nil }
