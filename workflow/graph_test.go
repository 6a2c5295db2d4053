package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmesh/deskmesh/core"
)

func noopNodes(ids ...NodeID) map[NodeID]NodeFunc {
	nodes := make(map[NodeID]NodeFunc, len(ids))
	for _, id := range ids {
		nodes[id] = func(context.Context, *core.WorkflowState) error { return nil }
	}
	return nodes
}

func allNodes() map[NodeID]NodeFunc {
	return noopNodes(NodeInit, NodeClassify, NodeKnowledge, NodeTools, NodeEscalate, NodeFinalize)
}

func TestDefaultGraphValidates(t *testing.T) {
	assert.NoError(t, DefaultGraph().Validate(allNodes()))
}

func TestValidateRejectsMissingNode(t *testing.T) {
	nodes := allNodes()
	delete(nodes, NodeEscalate)
	err := DefaultGraph().Validate(nodes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escalate")
}

func TestValidateRejectsMissingDefaultEdge(t *testing.T) {
	g := DefaultGraph()
	// Strip the default edge off classify so only the conditional remains.
	g.Edges[NodeClassify] = g.Edges[NodeClassify][:1]
	err := g.Validate(allNodes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default edge")
}

func TestValidateRejectsUnreachableNode(t *testing.T) {
	g := Graph{
		Start:    NodeInit,
		Terminal: NodeFinalize,
		Edges: map[NodeID][]ConditionalEdge{
			NodeInit:     {{To: NodeFinalize}},
			NodeEscalate: {{To: NodeFinalize}},
		},
	}
	err := g.Validate(noopNodes(NodeInit, NodeEscalate, NodeFinalize))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestValidateRejectsTerminalEdges(t *testing.T) {
	g := DefaultGraph()
	g.Edges[NodeFinalize] = []ConditionalEdge{{To: NodeInit}}
	err := g.Validate(allNodes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestNextFirstMatchWins(t *testing.T) {
	g := DefaultGraph()
	s := core.NewWorkflowState(core.TicketContext{}, nil)

	s.Classification.Intent = core.IntentBilling
	next, err := g.Next(NodeClassify, s)
	require.NoError(t, err)
	assert.Equal(t, NodeTools, next)

	s.Classification.Intent = core.IntentReservation
	next, err = g.Next(NodeClassify, s)
	require.NoError(t, err)
	assert.Equal(t, NodeKnowledge, next)

	s.Answer = "resolved"
	next, err = g.Next(NodeKnowledge, s)
	require.NoError(t, err)
	assert.Equal(t, NodeFinalize, next)

	s.Answer = ""
	next, err = g.Next(NodeKnowledge, s)
	require.NoError(t, err)
	assert.Equal(t, NodeEscalate, next)
}

func TestNextUnknownNode(t *testing.T) {
	g := DefaultGraph()
	_, err := g.Next(NodeFinalize, core.NewWorkflowState(core.TicketContext{}, nil))
	assert.Error(t, err)
}
