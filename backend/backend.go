package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUserNotFound is returned by AccountStore.Lookup when no user matches
// the given email.
var ErrUserNotFound = errors.New("user_not_found")

// User is the account holder record.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Blocked bool   `json:"blocked"`
}

// Subscription describes the user's current plan.
type Subscription struct {
	Status       string `json:"status"`
	Tier         string `json:"tier"`
	MonthlyQuota int    `json:"monthly_quota"`
}

// Reservation is one booked experience.
type Reservation struct {
	ReservationID string `json:"reservation_id"`
	ExperienceID  string `json:"experience_id"`
	Status        string `json:"status"`
}

// AccountRecord aggregates everything the lookup tool returns for a user.
type AccountRecord struct {
	User         User          `json:"user"`
	Subscription *Subscription `json:"subscription,omitempty"`
	Reservations []Reservation `json:"reservations"`
}

// AccountStore resolves account data by contact email.
type AccountStore interface {
	// Lookup returns the account record for email, or ErrUserNotFound.
	Lookup(ctx context.Context, email string) (*AccountRecord, error)
}

// PlanDecision is the outcome of a plan update or refund request.
type PlanDecision struct {
	Action   string `json:"action"`
	Approved bool   `json:"approved"`
	Note     string `json:"note"`
	User     User   `json:"user"`
}

// PlanUpdate decides a plan change / refund request. The account lookup runs
// first so an unknown user fails the whole request; only credit and
// downgrade actions are auto-approved, anything else is recorded but denied.
func PlanUpdate(ctx context.Context, store AccountStore, email, action, reason string) (*PlanDecision, error) {
	rec, err := store.Lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if action == "" {
		action = "credit"
	}
	if reason == "" {
		reason = "n/a"
	}
	approved := action == "credit" || action == "downgrade"
	return &PlanDecision{
		Action:   action,
		Approved: approved,
		Note:     fmt.Sprintf("Action=%s; reason=%s; approved=%t", action, reason, approved),
		User:     rec.User,
	}, nil
}

// Note is one ticket history line.
type Note struct {
	TicketID string `json:"ticket_id"`
	Role     string `json:"role"`
	Content  string `json:"content"`
}

// TicketLog records and retrieves per-ticket message history.
type TicketLog interface {
	// AppendNote appends an authored note to a ticket's history.
	AppendNote(ctx context.Context, ticketID, role, content string) error

	// Recent returns up to perTicket most recent notes for each of the
	// user's tickets, newest first within a ticket.
	Recent(ctx context.Context, userID string, perTicket int) ([]Note, error)
}

// Summarizer condenses a user's recent ticket history into a single text
// block. It implements core.HistorySummarizer: any backing failure yields
// an empty summary, never an error surfaced to the turn.
type Summarizer struct {
	log TicketLog
}

// NewSummarizer wraps a ticket log as a history summarizer.
func NewSummarizer(log TicketLog) *Summarizer {
	return &Summarizer{log: log}
}

// Summarize returns "[ticket/role] content" lines for the user's recent
// history, or the empty string when there is none or the log is unreachable.
func (s *Summarizer) Summarize(ctx context.Context, userID string) string {
	if s.log == nil || userID == "" {
		return ""
	}
	notes, err := s.log.Recent(ctx, userID, 3)
	if err != nil || len(notes) == 0 {
		return ""
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, fmt.Sprintf("[%s/%s] %s", n.TicketID, n.Role, n.Content))
	}
	return strings.Join(lines, "\n")
}
