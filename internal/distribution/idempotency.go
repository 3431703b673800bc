package distribution

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aadhavan2906/task-manager/model"
)

// ReplayGuard deduplicates distribution requests carrying an idempotency
// key. A repeated key with the same input hash returns the cached receipt
// instead of creating a second run; the same key with different input is a
// conflict.
type ReplayGuard interface {
	// Check looks up a previous receipt by key. If the key exists and the
	// input hash matches, the cached receipt is returned. If the key
	// exists with a different hash, a CONFLICT error is returned.
	Check(ctx context.Context, key, inputHash string) (receipt *model.RunReceipt, found bool, err error)

	// Store saves a receipt keyed by the idempotency key with a TTL.
	Store(ctx context.Context, key, inputHash string, receipt model.RunReceipt, ttl time.Duration) error
}

// replayEntry is the stored value for one idempotency key.
type replayEntry struct {
	InputHash string           `json:"input_hash"`
	Receipt   model.RunReceipt `json:"receipt"`
}

// --- MemoryReplayGuard ---

// MemoryReplayGuard is an in-memory ReplayGuard with TTL support. Suitable
// for testing and single-instance deployments.
type MemoryReplayGuard struct {
	mu      sync.RWMutex
	entries map[string]*memReplayEntry
}

type memReplayEntry struct {
	data      replayEntry
	expiresAt time.Time
}

// NewMemoryReplayGuard creates a new in-memory replay guard.
func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{
		entries: make(map[string]*memReplayEntry),
	}
}

// Check looks up a cached receipt. Returns a conflict error if the input
// hash differs.
func (g *MemoryReplayGuard) Check(_ context.Context, key, inputHash string) (*model.RunReceipt, bool, error) {
	g.mu.RLock()
	entry, exists := g.entries[key]
	g.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}

	if time.Now().After(entry.expiresAt) {
		g.mu.Lock()
		delete(g.entries, key)
		g.mu.Unlock()
		return nil, false, nil
	}

	if entry.data.InputHash != inputHash {
		return nil, true, model.NewConflictError(
			fmt.Sprintf("idempotency key %q already used with different input", key),
		)
	}

	receipt := entry.data.Receipt
	return &receipt, true, nil
}

// Store saves a receipt with TTL.
func (g *MemoryReplayGuard) Store(_ context.Context, key, inputHash string, receipt model.RunReceipt, ttl time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entries[key] = &memReplayEntry{
		data:      replayEntry{InputHash: inputHash, Receipt: receipt},
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Len returns the number of entries (including expired ones). For testing.
func (g *MemoryReplayGuard) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// --- RedisReplayGuard ---

// RedisReplayGuard is a Redis-backed ReplayGuard with TTL.
type RedisReplayGuard struct {
	client redis.Cmdable
}

// NewRedisReplayGuard creates a replay guard over the given Redis client.
func NewRedisReplayGuard(client redis.Cmdable) *RedisReplayGuard {
	return &RedisReplayGuard{client: client}
}

// Check looks up a cached receipt in Redis.
func (g *RedisReplayGuard) Check(ctx context.Context, key, inputHash string) (*model.RunReceipt, bool, error) {
	raw, err := g.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("replay guard: get %q: %w", key, err)
	}

	var entry replayEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("replay guard: decode %q: %w", key, err)
	}

	if entry.InputHash != inputHash {
		return nil, true, model.NewConflictError(
			fmt.Sprintf("idempotency key %q already used with different input", key),
		)
	}
	return &entry.Receipt, true, nil
}

// Store saves a receipt in Redis with TTL.
func (g *RedisReplayGuard) Store(ctx context.Context, key, inputHash string, receipt model.RunReceipt, ttl time.Duration) error {
	raw, err := json.Marshal(replayEntry{InputHash: inputHash, Receipt: receipt})
	if err != nil {
		return fmt.Errorf("replay guard: encode %q: %w", key, err)
	}
	if err := g.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("replay guard: set %q: %w", key, err)
	}
	return nil
}
