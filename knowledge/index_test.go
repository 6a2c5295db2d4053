package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		NewEntry("kb-1", "password reset", "how to reset your password", "kb", []string{"account"}),
		NewEntry("kb-2", "billing cycle", "when billing charges are applied", "kb", nil),
		NewEntry("kb-3", "password policy", "password rules password length", "kb", nil),
	}
}

func TestSearchExcludesZeroScores(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())

	hits := idx.Search("kafka brokers", 4)
	assert.Empty(t, hits, "unrelated query must return no hits, not zero-score hits")

	hits = idx.Search("password", 4)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Greater(t, h.Score, 0.0)
	}
}

func TestSearchOrdersDescending(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())

	hits := idx.Search("reset your password", 4)
	require.NotEmpty(t, hits)
	assert.Equal(t, "kb-1", hits[0].ID)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestSearchStableTieBreak(t *testing.T) {
	idx := NewIndex()
	idx.Load([]Entry{
		NewEntry("a", "alpha", "shared term", "kb", nil),
		NewEntry("b", "alpha", "shared term", "kb", nil),
	})

	hits := idx.Search("shared term", 4)
	require.Len(t, hits, 2)
	// Identical scores keep insertion order.
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "b", hits[1].ID)
}

func TestSearchBoundsResults(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())

	hits := idx.Search("password billing reset", 1)
	assert.Len(t, hits, 1)
}

func TestSearchOverlayDoesNotMutateIndex(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())
	before := idx.Len()

	overlay := NewMemoryEntry("password was reset yesterday", MemoryMeta{
		ID:     "hist-u1",
		Title:  "recent_history",
		Source: "ticketlog",
	})
	hits := idx.Search("password reset", 4, overlay)

	require.NotEmpty(t, hits)
	found := false
	for _, h := range hits {
		if h.ID == "hist-u1" {
			found = true
			assert.Equal(t, "ticketlog", h.Source)
		}
	}
	assert.True(t, found, "overlay entry should be searchable")
	assert.Equal(t, before, idx.Len(), "overlay must not be ingested")

	// A followup search without the overlay never sees it.
	for _, h := range idx.Search("password reset", 4) {
		assert.NotEqual(t, "hist-u1", h.ID)
	}
}

func TestReplaceSwapsEntireEntrySet(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())
	require.Equal(t, 3, idx.Len())

	// Loading again appends; replacing must not.
	idx.Replace(testEntries())
	assert.Equal(t, 3, idx.Len(), "replace swaps the set instead of appending")

	idx.Replace([]Entry{NewEntry("kb-9", "refund policy", "refunds post in five days", "kb", nil)})
	assert.Equal(t, 1, idx.Len())

	hits := idx.Search("password reset", 4)
	assert.Empty(t, hits, "replaced-away entries must not be searchable")
	hits = idx.Search("refund policy", 4)
	require.Len(t, hits, 1)
	assert.Equal(t, "kb-9", hits[0].ID)

	idx.Reset()
	assert.Zero(t, idx.Len())
}

func TestSearchRoundsScores(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())

	for _, h := range idx.Search("password reset", 4) {
		assert.Equal(t, round3(h.Score), h.Score, "scores must carry at most 3 decimals")
	}
}

func TestNewMemoryEntryDefaults(t *testing.T) {
	e := NewMemoryEntry("some text", MemoryMeta{ID: "m1"})
	assert.Equal(t, "memory", e.Title)
	assert.Equal(t, "memory", e.Source)
}

func TestEmbedZeroNormGuard(t *testing.T) {
	v := Embed("")
	assert.Empty(t, v)
	assert.Equal(t, 0.0, v.Dot(Embed("anything")))
}

func TestEmbedNormalized(t *testing.T) {
	v := Embed("reset reset password")
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
