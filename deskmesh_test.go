package deskmesh

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmesh/deskmesh/backend"
	"github.com/deskmesh/deskmesh/core"
	"github.com/deskmesh/deskmesh/knowledge"
)

func TestNewWithDefaults(t *testing.T) {
	svc, err := New()
	require.NoError(t, err)

	tools := svc.Tools()
	for _, name := range []string{
		backend.ToolAccountLookup,
		backend.ToolPlanUpdate,
		backend.ToolLogTicketNote,
		backend.ToolSummarizeHistory,
	} {
		assert.Contains(t, tools, name)
	}
}

func TestTurnEndToEnd(t *testing.T) {
	mem := backend.NewMemoryBackend()
	mem.AddAccount(backend.AccountRecord{
		User: backend.User{ID: "u1", Name: "Dana Soto", Email: "dana@example.com"},
	})

	svc, err := New(func(o *Options) {
		o.AccountStore = mem
		o.TicketLog = mem
	})
	require.NoError(t, err)

	svc.Index().Load([]knowledge.Entry{
		knowledge.NewEntry("kb-1", "Reschedule a booking", "Open the booking page and pick a new slot.", "kb", nil),
	})

	ctx := context.Background()

	answered, err := svc.Turn(ctx, "c1", core.TicketContext{}, "I need to reschedule my booking")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answered.Reply, "Here is what I found:"), "reply=%q", answered.Reply)

	ticket := core.TicketContext{Metadata: map[string]string{"email": "dana@example.com"}}
	refunded, err := svc.Turn(ctx, "c2", ticket, "refund my last payment please")
	require.NoError(t, err)
	assert.Contains(t, refunded.Reply, "Action: credit | Approved: true")
}

func TestNewRejectsBadCorpus(t *testing.T) {
	_, err := New(func(o *Options) {
		o.CorpusPath = "/does/not/exist.jsonl"
	})
	assert.Error(t, err)
}
