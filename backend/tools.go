package backend

import (
	"context"
	"fmt"

	"github.com/deskmesh/deskmesh/core"
	"github.com/deskmesh/deskmesh/tool"
)

// Tool names used by the workflow's tools stage.
const (
	ToolAccountLookup    = "account_lookup"
	ToolPlanUpdate       = "plan_update_or_refund"
	ToolLogTicketNote    = "log_ticket_note"
	ToolSummarizeHistory = "summarize_ticket_history"
)

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// NewAccountLookupTool exposes AccountStore.Lookup through the registry.
func NewAccountLookupTool(store AccountStore) tool.Tool {
	return tool.NewFunctionTool(
		ToolAccountLookup,
		"Lookup user, subscription and reservations by contact email.",
		func(ctx context.Context, args map[string]any) (any, error) {
			email := stringArg(args, "email")
			if email == "" {
				return nil, fmt.Errorf("email required")
			}
			return store.Lookup(ctx, email)
		},
	)
}

// NewPlanUpdateTool exposes the plan update / refund decision through the
// registry.
func NewPlanUpdateTool(store AccountStore) tool.Tool {
	return tool.NewFunctionTool(
		ToolPlanUpdate,
		"Decide a plan downgrade / credit / refund request with an approval flag.",
		func(ctx context.Context, args map[string]any) (any, error) {
			email := stringArg(args, "email")
			if email == "" {
				return nil, fmt.Errorf("email required")
			}
			return PlanUpdate(ctx, store, email, stringArg(args, "action"), stringArg(args, "reason"))
		},
	)
}

// NewLogTicketNoteTool exposes TicketLog.AppendNote through the registry.
// Notes logged through it are assistant-authored.
func NewLogTicketNoteTool(log TicketLog) tool.Tool {
	return tool.NewFunctionTool(
		ToolLogTicketNote,
		"Log an assistant note to the ticket history.",
		func(ctx context.Context, args map[string]any) (any, error) {
			ticketID := stringArg(args, "ticket_id")
			content := stringArg(args, "content")
			if ticketID == "" || content == "" {
				return nil, fmt.Errorf("ticket_id and content required")
			}
			if err := log.AppendNote(ctx, ticketID, string(core.RoleAssistant), content); err != nil {
				return nil, err
			}
			return map[string]any{"ticket_id": ticketID, "logged": true}, nil
		},
	)
}

// NewSummarizeHistoryTool exposes the history summarizer through the
// registry for introspection and manual use; the knowledge stage calls the
// summarizer collaborator directly.
func NewSummarizeHistoryTool(summarizer core.HistorySummarizer) tool.Tool {
	return tool.NewFunctionTool(
		ToolSummarizeHistory,
		"Summarize recent ticket messages for a given user id.",
		func(ctx context.Context, args map[string]any) (any, error) {
			return summarizer.Summarize(ctx, stringArg(args, "user_id")), nil
		},
	)
}

// RegisterDefaults registers the builtin support tools on the registry.
func RegisterDefaults(reg *tool.Registry, store AccountStore, log TicketLog, summarizer core.HistorySummarizer) {
	reg.Register(NewAccountLookupTool(store))
	reg.Register(NewPlanUpdateTool(store))
	reg.Register(NewLogTicketNoteTool(log))
	reg.Register(NewSummarizeHistoryTool(summarizer))
}
