// Package tool implements the tool invocation subsystem: an interface for
// external operations, a function adapter, and a name-keyed registry whose
// call envelope never propagates a fault to the caller. The envelope is the
// seam the orchestration core relies on to decide success vs. failure
// without knowing per-tool error shapes.
package tool

import "context"

// Tool defines the interface for operations the workflow can invoke:
// account lookups, plan changes, ticket annotations and similar
// side-effecting calls against external collaborators.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Return ordinary errors for failures; the registry wraps them
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier used for registry dispatch.
	Name() string

	// Description returns a human-readable description of what this tool
	// does, surfaced by Registry.ListTools for introspection and UIs.
	Description() string

	// Invoke executes the tool with structured arguments. The returned
	// value must be JSON-serializable.
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// FunctionTool is a generic adapter that exposes a plain Go function as a
// Tool. It has no internal mutable state after construction and is safe for
// concurrent use by multiple goroutines.
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown in tool listings
	description string
	// User supplied implementation
	fn func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from a name, description and
// implementation.
//
// Example:
//
//	lookup := tool.NewFunctionTool(
//	  "account_lookup",
//	  "Lookup a user account by email",
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    email, _ := args["email"].(string)
//	    return store.Lookup(ctx, email)
//	  },
//	)
func NewFunctionTool(
	name, description string,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{name: name, description: description, fn: fn}
}

// Name returns the unique tool name used for registry dispatch.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description of the tool.
func (t *FunctionTool) Description() string { return t.description }

// Invoke executes the wrapped function.
func (t *FunctionTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}
