package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// The upsert is a single statement so concurrent increments never lose
// an update. ent's builder has no portable ON CONFLICT ... + 1 form for
// SQLite, so it is written by hand.
const upsertUsage = `INSERT INTO usage_counters (summary_id, usage_count, last_used_at)
VALUES (?, 1, ?)
ON CONFLICT (summary_id) DO UPDATE SET
	usage_count = usage_count + 1,
	last_used_at = excluded.last_used_at`

func (r *contentRepo) IncrementUsage(ctx context.Context, summaryID int64) error {
	r.store.usageMu.Lock()
	defer r.store.usageMu.Unlock()

	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertUsage, summaryID, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("increment usage of summary %d: %w", summaryID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit usage: %w", err)
	}
	return nil
}

// GetUsageCounts returns the counter of each requested summary. Summaries
// never used are absent from the map; callers treat them as zero.
func (r *contentRepo) GetUsageCounts(ctx context.Context, ids []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query, qargs := builder().Select("summary_id", "usage_count").
		From(entsql.Table(tableUsage)).
		Where(entsql.In("summary_id", args...)).
		Query()

	rows, err := r.db().QueryContext(ctx, query, qargs...)
	if err != nil {
		return nil, fmt.Errorf("query usage counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan usage count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
