package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lango-rag/ragchat/memory"
)

// RedisMemoryStore implements memory.Store using Redis
type RedisMemoryStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "ragchat:"
	TTL      time.Duration // Expiration for sessions, default 0 (no expiration)
}

// NewRedisMemoryStore creates a new Redis memory store
func NewRedisMemoryStore(opts RedisOptions) *RedisMemoryStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "ragchat:"
	}

	return &RedisMemoryStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *RedisMemoryStore) sessionKey(id string) string {
	return fmt.Sprintf("%smemory:%s", s.prefix, id)
}

// Ping checks the connection
func (s *RedisMemoryStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Messages returns the messages of a session, empty if unknown
func (s *RedisMemoryStore) Messages(ctx context.Context, sessionID string) ([]memory.Message, error) {
	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load messages from redis: %w", err)
	}
	return memory.Decode(data)
}

// Update replaces the messages of a session and refreshes its TTL
func (s *RedisMemoryStore) Update(ctx context.Context, sessionID string, messages []memory.Message) error {
	data, err := memory.Encode(messages)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save messages to redis: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *RedisMemoryStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

// Close closes the client
func (s *RedisMemoryStore) Close() error {
	return s.client.Close()
}
