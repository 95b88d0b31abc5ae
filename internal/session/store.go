package session

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists filter state between the steps of one interactive flow.
// A missing session reads as the default state.
type Store interface {
	Get(ctx context.Context, userID int) (FilterState, error)
	Put(ctx context.Context, userID int, state FilterState) error
	Delete(ctx context.Context, userID int) error
}

// ---- Redis-backed store ----

// RedisStore keeps sessions in Redis with a TTL, so abandoned flows expire
// on their own across process restarts and instances.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(userID int) string {
	return fmt.Sprintf("session:filters:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int) (FilterState, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return DefaultFilters(), nil
	}
	if err != nil {
		return DefaultFilters(), fmt.Errorf("failed to load session: %w", err)
	}

	var state FilterState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return DefaultFilters(), fmt.Errorf("failed to decode session: %w", err)
	}
	if state.Genres == nil {
		state.Genres = []string{}
	}
	return state, nil
}

func (s *RedisStore) Put(ctx context.Context, userID int, state FilterState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

// ---- In-memory store ----

// MemoryStore is a process-local session store, used when Redis is not
// configured and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int]FilterState
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int]FilterState)}
}

func (s *MemoryStore) Get(_ context.Context, userID int) (FilterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[userID]
	if !ok {
		return DefaultFilters(), nil
	}
	// Clone so a caller mutating its copy cannot corrupt the stored one.
	state.Genres = slices.Clone(state.Genres)
	return state, nil
}

func (s *MemoryStore) Put(_ context.Context, userID int, state FilterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.Genres = slices.Clone(state.Genres)
	s.sessions[userID] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
