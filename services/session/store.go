package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

const (
	keyPrefix  = "quote:session:"
	DefaultTTL = 24 * time.Hour
)

var ErrSessionNotFound = errors.New("session: not found")

// Store persists wizard state between steps.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, s *State) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps each state as JSON under quote:session:<id>.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return Migrate(&s), nil
}

func (r *RedisStore) Save(ctx context.Context, s *State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+s.ID, b, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, keyPrefix+id).Err()
}

// MemoryStore is an in-process Store for single-instance deployments and tests.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: cache.New(ttl, 10*time.Minute)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*State, error) {
	v, ok := m.cache.Get(keyPrefix + id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	var s State
	if err := json.Unmarshal(v.([]byte), &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return Migrate(&s), nil
}

func (m *MemoryStore) Save(_ context.Context, s *State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.cache.SetDefault(keyPrefix+s.ID, b)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Delete(keyPrefix + id)
	return nil
}
