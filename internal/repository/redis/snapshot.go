package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/pkg/errors"
)

// Compile-time check
var _ sentiment.SnapshotCache = (*SnapshotCache)(nil)

// SnapshotCache stores rendered snapshots in Redis, keyed by ticker,
// requested range, and bucket window so differently-scoped dashboard
// queries never collide.
type SnapshotCache struct {
	rdb *redis.Client
}

// NewSnapshotCache creates a snapshot cache on the given Redis client
func NewSnapshotCache(rdb *redis.Client) *SnapshotCache {
	return &SnapshotCache{rdb: rdb}
}

func snapshotKey(ticker string, start, end time.Time, window time.Duration) string {
	return fmt.Sprintf("tickerpulse:snapshot:%s:%d:%d:%d",
		ticker, start.Unix(), end.Unix(), int64(window.Seconds()))
}

// Get returns the cached snapshot, or ErrNotFound on a cache miss
func (c *SnapshotCache) Get(ctx context.Context, ticker string, start, end time.Time, window time.Duration) (*sentiment.Snapshot, error) {
	data, err := c.rdb.Get(ctx, snapshotKey(ticker, start, end, window)).Bytes()
	if err == redis.Nil {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var snap sentiment.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, "unmarshal snapshot")
	}
	return &snap, nil
}

// Set stores the snapshot with the given TTL
func (c *SnapshotCache) Set(ctx context.Context, snap *sentiment.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}

	key := snapshotKey(snap.Ticker, snap.RangeStart, snap.RangeEnd, snap.Window)
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}
