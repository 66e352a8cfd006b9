package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// SnapshotKey is the Redis key holding the latest scored snapshot.
const SnapshotKey = "risk:snapshot:scored"

// SnapshotCache implements record.SnapshotStore on Redis. The snapshot is
// one JSON blob with its run ID and generation timestamp. TTL of zero
// keeps the snapshot until the next run replaces it.
//
// The last written snapshot is also kept in process memory so a Redis
// outage degrades reads to the last known snapshot instead of failing
// them. A cache miss is not an outage; expiry stays authoritative.
type SnapshotCache struct {
	cache *Cache
	ttl   time.Duration

	mu   sync.RWMutex
	last *record.ScoredSnapshot
}

// NewSnapshotCache creates a snapshot store with the given retention TTL.
func NewSnapshotCache(cache *Cache, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{cache: cache, ttl: ttl}
}

// Save replaces the previous snapshot wholesale.
func (s *SnapshotCache) Save(ctx context.Context, snap *record.ScoredSnapshot) error {
	if err := s.cache.Set(ctx, SnapshotKey, snap, s.ttl); err != nil {
		return shared.WrapError("score", "Save", shared.ErrStoreWrite,
			"scored snapshot", err)
	}

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()
	return nil
}

// Load returns the latest scored snapshot, or a wrapped
// shared.ErrSnapshotMissing when none exists or it has expired. A missing
// snapshot is an explicit error so the query surface never serves an
// empty result as success.
func (s *SnapshotCache) Load(ctx context.Context) (*record.ScoredSnapshot, error) {
	var snap record.ScoredSnapshot
	err := s.cache.Get(ctx, SnapshotKey, &snap)
	if err == nil {
		return &snap, nil
	}

	if errors.Is(err, ErrCacheMiss) {
		return nil, shared.NewDomainError("score", "Load", shared.ErrSnapshotMissing,
			"no scored snapshot available; run the pipeline first")
	}

	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last != nil {
		return last, nil
	}

	return nil, shared.WrapError("score", "Load", shared.ErrServiceUnavailable,
		"scored snapshot", err)
}
