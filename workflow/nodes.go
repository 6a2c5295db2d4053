package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/deskmesh/deskmesh/backend"
	"github.com/deskmesh/deskmesh/core"
	"github.com/deskmesh/deskmesh/knowledge"
)

// initNode resets every per-turn derived field so nothing from an earlier
// turn leaks forward. Messages and ticket context survive; classification,
// hits, tool calls, answer, escalation and trace all start clean.
func (o *Orchestrator) initNode(_ context.Context, s *core.WorkflowState) error {
	s.Classification = core.Classification{}
	s.KnowledgeHits = nil
	s.ToolCalls = nil
	s.Answer = ""
	s.Escalation = nil
	s.Trace = nil
	s.Log("init: normalized state")
	return nil
}

// classifyNode scores the most recent user message and records the full
// classification on the state.
func (o *Orchestrator) classifyNode(_ context.Context, s *core.WorkflowState) error {
	text := s.LastUserMessage()
	s.Classification = o.classifier.Classify(text, s.Ticket.Urgency)
	s.Log("classifier: " + s.Classification.Rationale)
	return nil
}

// knowledgeNode searches the article index for the current user message,
// optionally augmented with a summarized ticket history overlay. Overlay
// entries live only for this search; the shared index is never mutated by a
// turn.
func (o *Orchestrator) knowledgeNode(ctx context.Context, s *core.WorkflowState) error {
	if o.reloadPerTurn && o.corpusPath != "" {
		entries, err := knowledge.LoadJSONL(o.corpusPath, o.corpusAccount)
		if err != nil {
			o.logger.Warn("workflow.corpus.reload_failed", "path", o.corpusPath, "error", err.Error())
		} else {
			o.index.Replace(entries)
		}
	}

	var overlay []knowledge.Entry
	if o.summarizer != nil && s.Ticket.UserID != "" {
		if summary := o.summarizer.Summarize(ctx, s.Ticket.UserID); summary != "" {
			overlay = append(overlay, knowledge.NewMemoryEntry(summary, knowledge.MemoryMeta{
				ID:     "hist-" + s.Ticket.UserID,
				Title:  "recent_history",
				Source: "ticketlog",
			}))
		}
	}

	query := s.LastUserMessage()
	hits := o.index.Search(query, o.topK, overlay...)
	s.KnowledgeHits = hits

	if len(hits) == 0 {
		s.AppendMessage(core.NewAssistantMessage("I could not find a relevant article; escalating."))
		s.Escalation = &core.EscalationPacket{
			Escalate: true,
			Reason:   core.EscalationReasonNoHits,
			Summary:  "No knowledge base hit",
			Priority: core.UrgencyNormal,
		}
		s.Log("knowledge: no hits, escalate")
		return nil
	}

	s.Answer = buildAnswer(hits)
	s.Escalation = &core.EscalationPacket{Escalate: false}
	s.Classification.RaiseConfidence(hits[0].Score)
	s.AppendMessage(core.NewAssistantMessage(s.Answer))
	s.Log(fmt.Sprintf("knowledge: %d hits, top=%.2f", len(hits), hits[0].Score))
	return nil
}

// toolsNode selects and invokes the backend tool matching the classified
// intent. A missing contact email is an escalation, not an error; a tool
// failure clears the answer so the escalate branch takes over.
func (o *Orchestrator) toolsNode(ctx context.Context, s *core.WorkflowState) error {
	var name string
	switch s.Classification.Intent {
	case core.IntentBilling, core.IntentRefund:
		name = backend.ToolPlanUpdate
	case core.IntentAccount, core.IntentReservation:
		name = backend.ToolAccountLookup
	default:
		s.Escalation = &core.EscalationPacket{Escalate: false}
		s.Log("tools: no tool for intent")
		return nil
	}

	email := s.Ticket.ContactEmail()
	if email == "" {
		s.Escalation = &core.EscalationPacket{
			Escalate: true,
			Reason:   core.EscalationReasonMissingEmail,
			Summary:  "Email required for tool",
			Priority: core.UrgencyNormal,
		}
		s.Log("tools: missing email")
		return nil
	}

	args := map[string]any{"email": email}
	if name == backend.ToolPlanUpdate {
		action := "downgrade"
		if s.Classification.Intent == core.IntentBilling {
			action = "credit"
		}
		args["action"] = action
		args["reason"] = s.Classification.Rationale
	}

	res := o.registry.Call(ctx, name, args)
	rec := core.ToolCallRecord{
		Name:    name,
		Input:   args,
		Output:  res.Value,
		Success: res.OK(),
		Error:   res.Err,
	}
	s.ToolCalls = append(s.ToolCalls, rec)

	if !res.OK() {
		s.Answer = ""
		s.Escalation = &core.EscalationPacket{Escalate: false}
		s.Log(fmt.Sprintf("tools: %s failed: %s", name, res.Err))
		return nil
	}

	s.Answer = fmt.Sprintf("Tool `%s` result:\n%s", name, formatToolResult(res.Value))
	s.Classification.RaiseConfidence(0.7)
	s.Escalation = &core.EscalationPacket{Escalate: false}
	s.AppendMessage(core.NewAssistantMessage(s.Answer))
	s.Log(fmt.Sprintf("tools: %s success", name))
	return nil
}

// escalateNode raises (or re-raises) an escalation packet with a summary of
// everything the turn tried. A reason set by an earlier node is preserved;
// reaching here without one means the answer path fell through.
func (o *Orchestrator) escalateNode(_ context.Context, s *core.WorkflowState) error {
	reason := core.EscalationReasonLowConfOrErr
	if s.Escalation != nil && s.Escalation.Escalate && s.Escalation.Reason != "" {
		reason = s.Escalation.Reason
	}

	lines := []string{
		fmt.Sprintf("Intent: %s", s.Classification.Intent),
		fmt.Sprintf("Sentiment: %g", s.Classification.Sentiment),
		fmt.Sprintf("Knowledge hits: %d", len(s.KnowledgeHits)),
		fmt.Sprintf("Tools attempted: %d", len(s.ToolCalls)),
	}
	if len(s.KnowledgeHits) > 0 {
		lines = append(lines, fmt.Sprintf("Top hit: %s", s.KnowledgeHits[0].Title))
	}
	if len(s.ToolCalls) > 0 {
		last := s.ToolCalls[len(s.ToolCalls)-1]
		out := last.Error
		if last.Success {
			out = formatToolResult(last.Output)
		}
		lines = append(lines, fmt.Sprintf("Last tool: %s -> %s", last.Name, out))
	}

	priority := core.UrgencyNormal
	if s.Classification.Sentiment < -0.3 {
		priority = core.UrgencyHigh
	}

	s.Escalation = &core.EscalationPacket{
		Escalate: true,
		Reason:   reason,
		Summary:  strings.Join(lines, "\n"),
		Priority: priority,
	}
	s.Log("escalation: raised")
	return nil
}

// finalizeNode guarantees exactly one assistant reply per turn. If an
// earlier node already appended the message this turn would produce, it is
// reused; otherwise exactly one message is appended here.
func (o *Orchestrator) finalizeNode(_ context.Context, s *core.WorkflowState) error {
	if last, ok := s.LastMessage(); ok && last.Role == core.RoleAssistant {
		escalated := strings.Contains(strings.ToLower(last.Content), "escalating") ||
			strings.HasPrefix(last.Content, "Escalated:")
		if s.Escalating() && escalated {
			s.Log("finalize: reuse existing escalation message")
			return nil
		}
		if !s.Escalating() && s.Answer != "" && last.Content == s.Answer {
			s.Log("finalize: reuse existing answer message")
			return nil
		}
	}

	var reply string
	switch {
	case s.Escalating():
		reply = "Escalated: " + s.Escalation.Summary
	case s.Answer != "":
		reply = s.Answer
	default:
		reply = "No response generated."
	}
	s.AppendMessage(core.NewAssistantMessage(reply))
	s.Log("finalize: responded")
	return nil
}

// buildAnswer renders a ranked hit list plus the top hit's content as the
// suggested resolution.
func buildAnswer(hits []core.KnowledgeHit) string {
	var b strings.Builder
	b.WriteString("Here is what I found:\n")
	for i, h := range hits {
		fmt.Fprintf(&b, "\n%d. %s (source: %s, score=%g)", i+1, h.Title, h.Source, h.Score)
	}
	fmt.Fprintf(&b, "\n\nSuggested resolution: %s", hits[0].Content)
	return b.String()
}

// formatToolResult renders known backend result types into the short
// human-readable block embedded in replies. Unknown types fall back to %v.
func formatToolResult(v any) string {
	switch r := v.(type) {
	case *backend.AccountRecord:
		var b strings.Builder
		fmt.Fprintf(&b, "Account: %s (%s)\n", r.User.Name, r.User.Email)
		if r.Subscription != nil {
			fmt.Fprintf(&b, "Status: %s | Tier: %s | Quota: %d\n",
				r.Subscription.Status, r.Subscription.Tier, r.Subscription.MonthlyQuota)
		} else {
			b.WriteString("Status: n/a | Tier: n/a | Quota: n/a\n")
		}
		if len(r.Reservations) == 0 {
			b.WriteString("Reservations: none on file.")
		} else {
			b.WriteString("Reservations:")
			for _, res := range r.Reservations {
				fmt.Fprintf(&b, "\n- %s [%s] (resv %s)", res.ExperienceID, res.Status, res.ReservationID)
			}
		}
		return b.String()
	case *backend.PlanDecision:
		return fmt.Sprintf("Action: %s | Approved: %t | Note: %s", r.Action, r.Approved, r.Note)
	default:
		return fmt.Sprintf("%v", v)
	}
}
