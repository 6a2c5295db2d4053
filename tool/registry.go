package tool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deskmesh/deskmesh/logging"
)

// Result is the uniform call envelope returned by Registry.Call. Exactly one
// of Value or Err is meaningful: a non-empty Err means the call failed.
// Error strings are machine-prefixed:
//
//	tool_not_found:<name>          unknown tool name
//	tool_error:<name>:<detail>     handler returned an error or panicked
type Result struct {
	Value any    `json:"result,omitempty"`
	Err   string `json:"error,omitempty"`
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == "" }

// Registry is a name-keyed dispatch table of tools. Registration happens
// once at process start; Call is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger logging.Logger
}

// NewRegistry creates an empty registry. A nil logger is replaced by the
// no-op logger.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logging.OrNoOp(logger),
	}
}

// Register adds a tool to the registry. A tool with the same name replaces
// the previous registration.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns a registered tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Call invokes a tool by name and returns the uniform Result envelope. It
// never panics and never propagates an error value to the caller: unknown
// names, handler errors and handler panics all come back as Err strings.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (res Result) {
	t, ok := r.Get(name)
	if !ok {
		return Result{Err: fmt.Sprintf("tool_not_found:%s", name)}
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{Err: fmt.Sprintf("tool_error:%s:%v", name, rec)}
		}
		logging.LogToolCall(r.logger, name, time.Since(start), res.OK(), res.Err)
	}()

	value, err := t.Invoke(ctx, args)
	if err != nil {
		return Result{Err: fmt.Sprintf("tool_error:%s:%v", name, err)}
	}
	return Result{Value: value}
}

// ListTools returns the name to description mapping of all registered tools.
func (r *Registry) ListTools() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.tools))
	for name, t := range r.tools {
		out[name] = t.Description()
	}
	return out
}
