// Package cache persists session snapshots so an interrupted attempt can be
// resumed from another process. Redis backs production; the in-memory store
// exists for tests and single-node development.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ielts-prep/session-service/internal/models"
	"github.com/ielts-prep/session-service/internal/utils"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a session.
var ErrSnapshotNotFound = errors.New("session snapshot not found")

// Snapshot is everything needed to rebuild a session mid-attempt. Test
// identity is stored alongside the state so resume can reload content
// without a separate lookup.
type Snapshot struct {
	Source     string                        `json:"source"`
	TestNumber string                        `json:"testNumber"`
	Skill      models.Skill                  `json:"skill"`
	State      models.SessionState           `json:"state"`
	Highlights map[string][]models.Highlight `json:"highlights,omitempty"`
	SavedAt    time.Time                     `json:"savedAt"`
}

// SnapshotStore saves and loads snapshots keyed by session ID.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, snap *Snapshot) error
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger utils.Logger
}

// NewRedisStore builds a SnapshotStore on top of an existing redis client.
// Snapshots expire after ttl so abandoned attempts do not accumulate.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger utils.Logger) SnapshotStore {
	return &redisStore{client: client, ttl: ttl, logger: logger}
}

func snapshotKey(sessionID string) string {
	return "session:snapshot:" + sessionID
}

func (r *redisStore) Save(ctx context.Context, sessionID string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKey(sessionID), data, r.ttl).Err(); err != nil {
		r.logger.Error("failed to save session snapshot", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *redisStore) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func (r *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// MemoryStore is a process-local SnapshotStore.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *snap
	m.snaps[sessionID] = &copied
	return nil
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[sessionID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	copied := *snap
	return &copied, nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, sessionID)
	return nil
}
