package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deskmesh/deskmesh/core"
)

const (
	// Redis key prefix for conversations.
	conversationKeyPrefix = "conversation:"
	// Default TTL for conversation keys.
	defaultTTL = 24 * time.Hour
)

// RedisStore is a ConversationStore backed by Redis. Conversations are
// stored as JSON under a prefixed key with a TTL that is refreshed on every
// read, so active conversations stay alive and abandoned ones expire.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed conversation store. A non-positive
// ttl falls back to the default of 24 hours.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get implements core.ConversationStore.
func (s *RedisStore) Get(ctx context.Context, id string) (*core.Conversation, error) {
	key := s.key(id)
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var conv core.Conversation
	if err := json.Unmarshal([]byte(val), &conv); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}

	// Refresh TTL on read; a failed refresh is not worth failing the turn.
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &conv, nil
}

// Save implements core.ConversationStore. The caller's conversation is not
// touched; the timestamp is stamped on a local snapshot.
func (s *RedisStore) Save(ctx context.Context, conv *core.Conversation) error {
	snapshot := *conv
	snapshot.Updated = time.Now()
	val, err := json.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", conv.ID, err)
	}
	if err := s.client.Set(ctx, s.key(conv.ID), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(conv.ID), err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return conversationKeyPrefix + id
}
