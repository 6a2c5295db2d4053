package core

// TicketContext carries the caller-supplied ticket metadata for a turn. It is
// immutable within a turn: nodes read from it but never write to it.
type TicketContext struct {
	TicketID  string            `json:"ticket_id"`
	UserID    string            `json:"user_id"`
	AccountID string            `json:"account_id"`
	Channel   string            `json:"channel"`
	Urgency   Urgency           `json:"urgency,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ContactEmail resolves the contact address used by account-facing tools.
// The metadata keys are checked in order; an empty string means no email is
// on file and tool preconditions requiring one must escalate.
func (t TicketContext) ContactEmail() string {
	for _, key := range []string{"email", "user_email"} {
		if v, ok := t.Metadata[key]; ok && v != "" {
			return v
		}
	}
	return ""
}
