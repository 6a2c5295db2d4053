package session

import (
	"context"
	"errors"
	"testing"

	"github.com/deskmesh/deskmesh/core"
)

// Interface compliance (compile-time assertion)
var _ core.ConversationStore = (*InMemoryStore)(nil)

func TestInMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	conv := &core.Conversation{
		ID:       "c1",
		Messages: []core.Message{core.NewUserMessage("hi")},
		Trace:    []string{"init: normalized state"},
	}
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hi" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.Updated.IsZero() {
		t.Fatal("expected Updated to be stamped on save")
	}
}

func TestInMemoryStoreNotFound(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected core.ErrNotFound, got %v", err)
	}
}

func TestInMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	conv := &core.Conversation{ID: "c1", Messages: []core.Message{core.NewUserMessage("hi")}}
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the saved value or a returned clone must not leak into the
	// store.
	conv.Messages[0].Content = "mutated"
	got, _ := store.Get(ctx, "c1")
	got.Messages[0].Content = "also mutated"

	again, _ := store.Get(ctx, "c1")
	if again.Messages[0].Content != "hi" {
		t.Fatalf("store state leaked: %q", again.Messages[0].Content)
	}
}
