package core

// KnowledgeHit is a ranked knowledge-base search result. Hits are ordered
// descending by score and are not persisted beyond the turn that produced
// them.
type KnowledgeHit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Score   float64  `json:"score"`
	Source  string   `json:"source"`
	Tags    []string `json:"tags,omitempty"`
}

// ToolCallRecord captures one tool invocation. Records are appended to the
// turn's call history and never mutated afterwards.
type ToolCallRecord struct {
	Name    string         `json:"name"`
	Input   map[string]any `json:"input"`
	Output  any            `json:"output,omitempty"`
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
}

// EscalationPacket records the turn's escalation decision. A packet with
// Escalate=false is meaningful: it is an explicit "no escalation" marker,
// distinct from the absence of a packet.
type EscalationPacket struct {
	Escalate bool    `json:"escalate"`
	Reason   string  `json:"reason,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	Priority Urgency `json:"priority,omitempty"`
}

// Escalation reasons produced by the workflow nodes.
const (
	EscalationReasonNoHits       = "no_hits"
	EscalationReasonMissingEmail = "missing_email"
	EscalationReasonLowConfOrErr = "low_confidence_or_error"
)

// WorkflowState is the aggregate threaded through the orchestration graph.
//
// Ownership: a state instance is exclusively owned by one in-flight turn.
// Nodes execute strictly sequentially against it, so no locking is needed
// or provided. It is created fresh at the start of each turn — history
// messages and ticket carried over, every derived field reset — which is
// the mechanism preventing a stale classification or escalation from one
// turn leaking into the next.
type WorkflowState struct {
	Messages       []Message        `json:"messages"`
	Ticket         TicketContext    `json:"ticket"`
	Classification Classification   `json:"classification"`
	KnowledgeHits  []KnowledgeHit   `json:"knowledge_hits,omitempty"`
	ToolCalls      []ToolCallRecord `json:"tool_calls,omitempty"`
	Answer         string           `json:"answer,omitempty"`
	Escalation     *EscalationPacket `json:"escalation,omitempty"`
	Trace          []string         `json:"trace"`
}

// NewWorkflowState creates a fresh turn state carrying only the supplied
// messages and ticket. All derived fields start zeroed.
func NewWorkflowState(ticket TicketContext, messages []Message) *WorkflowState {
	return &WorkflowState{
		Messages: messages,
		Ticket:   ticket,
	}
}

// Log appends a human-readable entry to the turn trace. The trace grows
// monotonically and is never rewritten.
func (s *WorkflowState) Log(entry string) {
	s.Trace = append(s.Trace, entry)
}

// AppendMessage appends a message to the conversation.
func (s *WorkflowState) AppendMessage(m Message) {
	s.Messages = append(s.Messages, m)
}

// LastUserMessage returns the content of the most recent user message, or
// the empty string if none exists.
func (s *WorkflowState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// LastMessage returns the final message and true, or a zero Message and
// false when the conversation is empty.
func (s *WorkflowState) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Escalating reports whether the turn carries a live escalation.
func (s *WorkflowState) Escalating() bool {
	return s.Escalation != nil && s.Escalation.Escalate
}
