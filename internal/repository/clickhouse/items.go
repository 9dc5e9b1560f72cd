package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"tickerpulse/internal/domain/sentiment"
)

// Compile-time check
var _ sentiment.Repository = (*ItemRepository)(nil)

// ItemRepository archives scored items in ClickHouse. The archive is
// append-only; refreshes re-insert and queries deduplicate by id.
type ItemRepository struct {
	conn driver.Conn
}

// NewItemRepository creates a new scored-item repository
func NewItemRepository(conn driver.Conn) *ItemRepository {
	return &ItemRepository{conn: conn}
}

// Re-inserted rows share ids; reads collapse them with LIMIT 1 BY id,
// so no ReplacingMergeTree merge needs to have happened.
const scoredItemsDDL = `
	CREATE TABLE IF NOT EXISTS scored_items (
		id        String,
		source    LowCardinality(String),
		ticker    LowCardinality(String),
		timestamp DateTime,
		text      String,
		url       String,
		author    String,
		sentiment Float64
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(timestamp)
	ORDER BY (ticker, timestamp, id)`

// EnsureSchema creates the archive table if it does not exist yet
func (r *ItemRepository) EnsureSchema(ctx context.Context) error {
	return r.conn.Exec(ctx, scoredItemsDDL)
}

// InsertItems archives a batch of scored items
func (r *ItemRepository) InsertItems(ctx context.Context, items []sentiment.ScoredItem) error {
	if len(items) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO scored_items (
			id, source, ticker, timestamp, text, url, author, sentiment
		)`)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := batch.Append(
			item.ID, string(item.Source), item.Ticker, item.Timestamp,
			item.Text, item.URL, item.Author, item.Sentiment,
		); err != nil {
			return err
		}
	}

	return batch.Send()
}

// itemRow mirrors the scored_items table layout
type itemRow struct {
	ID        string    `ch:"id"`
	Source    string    `ch:"source"`
	Ticker    string    `ch:"ticker"`
	Timestamp time.Time `ch:"timestamp"`
	Text      string    `ch:"text"`
	URL       string    `ch:"url"`
	Author    string    `ch:"author"`
	Sentiment float64   `ch:"sentiment"`
}

// GetItems retrieves archived items for a ticker within [start, end)
func (r *ItemRepository) GetItems(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.ScoredItem, error) {
	var rows []itemRow

	query := `
		SELECT id, source, ticker, timestamp, text, url, author, sentiment
		FROM scored_items
		WHERE ticker = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp ASC
		LIMIT 1 BY id`

	if err := r.conn.Select(ctx, &rows, query, ticker, start, end); err != nil {
		return nil, err
	}

	items := make([]sentiment.ScoredItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, sentiment.ScoredItem{
			RawItem: sentiment.RawItem{
				ID:        row.ID,
				Source:    sentiment.Source(row.Source),
				Ticker:    row.Ticker,
				Timestamp: row.Timestamp,
				Text:      row.Text,
				URL:       row.URL,
				Author:    row.Author,
			},
			Sentiment: row.Sentiment,
		})
	}
	return items, nil
}
