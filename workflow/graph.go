package workflow

import (
	"context"
	"fmt"

	"github.com/deskmesh/deskmesh/core"
)

// NodeID names a stage in the orchestration graph.
type NodeID string

const (
	// NodeInit resets derived state at the top of every turn.
	NodeInit NodeID = "init"
	// NodeClassify tags intent, sentiment and urgency.
	NodeClassify NodeID = "classify"
	// NodeKnowledge retrieves and ranks knowledge articles.
	NodeKnowledge NodeID = "knowledge"
	// NodeTools invokes at most one registry tool for the intent.
	NodeTools NodeID = "tools"
	// NodeEscalate composes the human hand-off packet.
	NodeEscalate NodeID = "escalate"
	// NodeFinalize appends the turn's single terminal reply.
	NodeFinalize NodeID = "finalize"
)

// NodeFunc is a single state-transforming stage. Implementations handle
// their own failure modes and always leave the state valid; the only error
// they may return is a context cancellation.
type NodeFunc func(ctx context.Context, s *core.WorkflowState) error

// ConditionalEdge routes from one node to the next. Edges are evaluated in
// declaration order and the first matching edge wins. A nil When is the
// default edge: it always matches and must terminate every edge list so
// routing is never undefined.
type ConditionalEdge struct {
	When func(s *core.WorkflowState) bool
	To   NodeID
}

// Graph is the enumerated topology of the workflow: a start node, a
// terminal node, and the ordered conditional edges out of every
// non-terminal node.
type Graph struct {
	Start    NodeID
	Terminal NodeID
	Edges    map[NodeID][]ConditionalEdge
}

// DefaultGraph returns the fixed support-triage topology:
//
//	init → classify
//	classify → tools   (intent ∈ {billing, refund, account})
//	         → knowledge (default)
//	knowledge → finalize (answer produced) | escalate (default)
//	tools     → finalize (answer produced) | escalate (default)
//	escalate  → finalize
//	finalize  → end
func DefaultGraph() Graph {
	answered := func(s *core.WorkflowState) bool { return s.Answer != "" }
	toolBound := func(s *core.WorkflowState) bool {
		switch s.Classification.Intent {
		case core.IntentBilling, core.IntentRefund, core.IntentAccount:
			return true
		}
		return false
	}

	return Graph{
		Start:    NodeInit,
		Terminal: NodeFinalize,
		Edges: map[NodeID][]ConditionalEdge{
			NodeInit: {
				{To: NodeClassify},
			},
			NodeClassify: {
				{When: toolBound, To: NodeTools},
				{To: NodeKnowledge},
			},
			NodeKnowledge: {
				{When: answered, To: NodeFinalize},
				{To: NodeEscalate},
			},
			NodeTools: {
				{When: answered, To: NodeFinalize},
				{To: NodeEscalate},
			},
			NodeEscalate: {
				{To: NodeFinalize},
			},
		},
	}
}

// Next evaluates the edges out of from in order and returns the first
// matching target. Validate guarantees a default edge exists, so Next can
// only fail on a node missing from the table.
func (g Graph) Next(from NodeID, s *core.WorkflowState) (NodeID, error) {
	edges, ok := g.Edges[from]
	if !ok {
		return "", fmt.Errorf("node %q has no outgoing edges", from)
	}
	for _, e := range edges {
		if e.When == nil || e.When(s) {
			return e.To, nil
		}
	}
	return "", fmt.Errorf("node %q matched no edge and has no default", from)
}

// Validate statically checks the topology against the registered node set:
// the start and terminal nodes exist, every edge source and target is
// registered, every non-terminal node ends its edge list with a default
// edge, and every registered node is reachable from the start.
func (g Graph) Validate(nodes map[NodeID]NodeFunc) error {
	if _, ok := nodes[g.Start]; !ok {
		return fmt.Errorf("start node %q not registered", g.Start)
	}
	if _, ok := nodes[g.Terminal]; !ok {
		return fmt.Errorf("terminal node %q not registered", g.Terminal)
	}

	for from, edges := range g.Edges {
		if _, ok := nodes[from]; !ok {
			return fmt.Errorf("edge source %q not registered", from)
		}
		if from == g.Terminal {
			return fmt.Errorf("terminal node %q must not have outgoing edges", from)
		}
		if len(edges) == 0 {
			return fmt.Errorf("node %q has an empty edge list", from)
		}
		for i, e := range edges {
			if _, ok := nodes[e.To]; !ok {
				return fmt.Errorf("node %q edge %d targets unregistered node %q", from, i, e.To)
			}
		}
		if last := edges[len(edges)-1]; last.When != nil {
			return fmt.Errorf("node %q lacks a default edge", from)
		}
	}

	for id := range nodes {
		if id == g.Terminal {
			continue
		}
		if _, ok := g.Edges[id]; !ok {
			return fmt.Errorf("node %q has no outgoing edges", id)
		}
	}

	reached := map[NodeID]bool{g.Start: true}
	frontier := []NodeID{g.Start}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, e := range g.Edges[cur] {
			if !reached[e.To] {
				reached[e.To] = true
				frontier = append(frontier, e.To)
			}
		}
	}
	for id := range nodes {
		if !reached[id] {
			return fmt.Errorf("node %q unreachable from %q", id, g.Start)
		}
	}
	return nil
}
