package core

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message produced by the workflow.
	RoleAssistant Role = "assistant"
	// RoleSystem marks an instruction or annotation message.
	RoleSystem Role = "system"
)

// Message is a single conversation entry. Messages are append-only within a
// turn; the accumulated history persists across turns keyed by conversation id.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant-authored message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
