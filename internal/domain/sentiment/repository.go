package sentiment

import (
	"context"
	"time"
)

// Repository defines the interface for the scored-item archive (ClickHouse)
type Repository interface {
	// InsertItems archives a batch of scored items
	InsertItems(ctx context.Context, items []ScoredItem) error

	// GetItems retrieves archived items for a ticker within [start, end)
	GetItems(ctx context.Context, ticker string, start, end time.Time) ([]ScoredItem, error)
}

// SnapshotCache caches rendered snapshots (Redis). Entries are keyed by
// ticker, range, and bucket window so differently-shaped queries never
// alias each other.
type SnapshotCache interface {
	Get(ctx context.Context, ticker string, start, end time.Time, window time.Duration) (*Snapshot, error)
	Set(ctx context.Context, snap *Snapshot, ttl time.Duration) error
}
