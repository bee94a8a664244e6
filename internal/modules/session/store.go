// README: Snapshot store backed by Redis with TTL; in-memory fallback for
// single-node deployments and tests.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"tastetrip/internal/ai"
)

var ErrNotFound = errors.New("session not found")

// Snapshots expire after a day of silence; a stale trip plan is worse
// than starting over.
const defaultTTL = 24 * time.Hour

type Store interface {
	Save(ctx context.Context, id string, snap *Snapshot) error
	Load(ctx context.Context, id string) (*Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: defaultTTL}
}

func key(id string) string { return "session:" + id }

func (s *RedisStore) Save(ctx context.Context, id string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", id, err)
	}
	return s.rdb.Set(ctx, key(id), data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	data, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}

// MemStore keeps snapshots in process memory.
type MemStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

func NewMemStore() *MemStore {
	return &MemStore{snaps: map[string]*Snapshot{}}
}

func (s *MemStore) Save(_ context.Context, id string, snap *Snapshot) error {
	cp := *snap
	cp.History = append([]ai.Turn(nil), snap.History...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[id] = &cp
	return nil
}

func (s *MemStore) Load(_ context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *snap
	return &cp, nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, id)
	return nil
}
