package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deskmesh/deskmesh/core"
)

// Interface compliance (compile-time assertion)
var _ core.ConversationStore = (*RedisStore)(nil)

func TestRedisStoreTTLDefault(t *testing.T) {
	s := NewRedisStore(redis.NewClient(&redis.Options{}), 0)
	if s.ttl != defaultTTL {
		t.Fatalf("expected default ttl %v, got %v", defaultTTL, s.ttl)
	}
	s = NewRedisStore(redis.NewClient(&redis.Options{}), time.Hour)
	if s.ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", s.ttl)
	}
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	s := NewRedisStore(redis.NewClient(&redis.Options{}), 0)
	if got := s.key("c1"); got != "conversation:c1" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestRedisStoreSaveDoesNotMutateCaller(t *testing.T) {
	// Unreachable address: Set fails after the snapshot is built, which is
	// enough to observe whether Save touched the caller's value.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	s := NewRedisStore(client, time.Hour)

	conv := &core.Conversation{ID: "c1", Messages: []core.Message{core.NewUserMessage("hi")}}
	err := s.Save(context.Background(), conv)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !conv.Updated.IsZero() {
		t.Fatalf("Save mutated the caller's conversation: Updated=%v", conv.Updated)
	}
}
