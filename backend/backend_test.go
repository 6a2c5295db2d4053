package backend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmesh/deskmesh/core"
	"github.com/deskmesh/deskmesh/tool"
)

// Interface compliance (compile-time assertions)
var (
	_ AccountStore           = (*MemoryBackend)(nil)
	_ TicketLog              = (*MemoryBackend)(nil)
	_ core.HistorySummarizer = (*Summarizer)(nil)
)

func seededBackend() *MemoryBackend {
	m := NewMemoryBackend()
	m.AddAccount(AccountRecord{
		User:         User{ID: "u1", Name: "Dana Soto", Email: "dana@example.com"},
		Subscription: &Subscription{Status: "active", Tier: "pro", MonthlyQuota: 4},
		Reservations: []Reservation{{ReservationID: "r1", ExperienceID: "e1", Status: "confirmed"}},
	})
	return m
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	m := seededBackend()

	rec, err := m.Lookup(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Dana Soto", rec.User.Name)
	require.NotNil(t, rec.Subscription)
	assert.Equal(t, "pro", rec.Subscription.Tier)

	_, err = m.Lookup(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestPlanUpdateApproval(t *testing.T) {
	ctx := context.Background()
	m := seededBackend()

	credit, err := PlanUpdate(ctx, m, "dana@example.com", "credit", "double charge")
	require.NoError(t, err)
	assert.True(t, credit.Approved)
	assert.Equal(t, "Action=credit; reason=double charge; approved=true", credit.Note)

	downgrade, err := PlanUpdate(ctx, m, "dana@example.com", "downgrade", "")
	require.NoError(t, err)
	assert.True(t, downgrade.Approved)
	assert.Equal(t, "Action=downgrade; reason=n/a; approved=true", downgrade.Note)

	upgrade, err := PlanUpdate(ctx, m, "dana@example.com", "upgrade", "wants more")
	require.NoError(t, err)
	assert.False(t, upgrade.Approved, "only credit and downgrade are auto-approved")

	// Empty action defaults to credit.
	def, err := PlanUpdate(ctx, m, "dana@example.com", "", "")
	require.NoError(t, err)
	assert.Equal(t, "credit", def.Action)
	assert.True(t, def.Approved)
}

func TestPlanUpdateUnknownUser(t *testing.T) {
	_, err := PlanUpdate(context.Background(), NewMemoryBackend(), "ghost@example.com", "credit", "")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestTicketLogRecent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()
	m.OpenTicket("u1", "t1")

	require.NoError(t, m.AppendNote(ctx, "t1", "user", "first"))
	require.NoError(t, m.AppendNote(ctx, "t1", "assistant", "second"))
	require.NoError(t, m.AppendNote(ctx, "t1", "user", "third"))

	notes, err := m.Recent(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, notes, 2, "perTicket bounds the window")
	assert.Equal(t, "third", notes[0].Content, "newest first")
	assert.Equal(t, "second", notes[1].Content)
}

func TestSummarizer(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()
	m.OpenTicket("u1", "t1")
	require.NoError(t, m.AppendNote(ctx, "t1", "user", "my card was charged twice"))

	s := NewSummarizer(m)
	summary := s.Summarize(ctx, "u1")
	assert.True(t, strings.Contains(summary, "[t1/user] my card was charged twice"), "summary=%q", summary)

	assert.Equal(t, "", s.Summarize(ctx, "nobody"), "no history yields empty summary")
}

func TestDefaultToolsRegistered(t *testing.T) {
	m := seededBackend()
	reg := tool.NewRegistry(nil)
	RegisterDefaults(reg, m, m, NewSummarizer(m))

	for _, name := range []string{ToolAccountLookup, ToolPlanUpdate, ToolLogTicketNote, ToolSummarizeHistory} {
		if _, ok := reg.Get(name); !ok {
			t.Fatalf("tool %s not registered", name)
		}
	}
}

func TestLogTicketNoteToolValidation(t *testing.T) {
	m := NewMemoryBackend()
	reg := tool.NewRegistry(nil)
	reg.Register(NewLogTicketNoteTool(m))

	res := reg.Call(context.Background(), ToolLogTicketNote, map[string]any{"ticket_id": "t1"})
	assert.False(t, res.OK())

	res = reg.Call(context.Background(), ToolLogTicketNote, map[string]any{
		"ticket_id": "t1",
		"content":   "resolved by credit",
	})
	require.True(t, res.OK(), "err=%s", res.Err)

	m.OpenTicket("u1", "t1")
	notes, err := m.Recent(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, string(core.RoleAssistant), notes[0].Role)
}
