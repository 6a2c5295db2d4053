package core

import "github.com/google/uuid"

// NewID generates a unique identifier for invocations, tool call records and
// ad hoc knowledge entries.
func NewID() string {
	return uuid.NewString()
}
