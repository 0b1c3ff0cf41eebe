package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

type memoryItem struct {
	value     any
	expiresAt time.Time
}

// MemoryBackend is an in-process backend built on sturdyc. Entries expire
// after the TTL passed to Put, capped by the client-wide maximum TTL.
type MemoryBackend struct {
	client *sturdyc.Client[memoryItem]
	now    func() time.Time
}

// MemoryOption customizes a MemoryBackend.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	capacity int
	shards   int
	maxTTL   time.Duration
	evictPct int
	now      func() time.Time
}

// WithCapacity sets the maximum number of entries.
func WithCapacity(capacity int) MemoryOption {
	return func(cfg *memoryConfig) {
		if capacity > 0 {
			cfg.capacity = capacity
		}
	}
}

// WithMaxTTL caps how long any entry can live.
func WithMaxTTL(ttl time.Duration) MemoryOption {
	return func(cfg *memoryConfig) {
		if ttl > 0 {
			cfg.maxTTL = ttl
		}
	}
}

// WithMemoryClock overrides time.Now for expiry checks.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(cfg *memoryConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// NewMemoryBackend constructs a sturdyc-backed backend.
func NewMemoryBackend(options ...MemoryOption) *MemoryBackend {
	cfg := memoryConfig{
		capacity: 10000,
		shards:   10,
		maxTTL:   24 * time.Hour,
		evictPct: 10,
		now:      time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &MemoryBackend{
		client: sturdyc.New[memoryItem](cfg.capacity, cfg.shards, cfg.maxTTL, cfg.evictPct),
		now:    cfg.now,
	}
}

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string, _ time.Duration) (any, bool) {
	if m == nil || m.client == nil {
		return nil, false
	}
	item, ok := m.client.Get(key)
	if !ok {
		return nil, false
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		m.client.Delete(key)
		return nil, false
	}
	return item.value, true
}

// Put implements Backend.
func (m *MemoryBackend) Put(_ context.Context, key string, value any, ttl time.Duration) {
	if m == nil || m.client == nil {
		return
	}
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.client.Set(key, item)
}

// Delete implements Deleter.
func (m *MemoryBackend) Delete(_ context.Context, key string) {
	if m == nil || m.client == nil {
		return
	}
	m.client.Delete(key)
}

// Size returns the number of stored entries.
func (m *MemoryBackend) Size() int {
	if m == nil || m.client == nil {
		return 0
	}
	return m.client.Size()
}

var _ Backend = (*MemoryBackend)(nil)
var _ Deleter = (*MemoryBackend)(nil)
