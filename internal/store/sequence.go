package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// nextSequence bumps the single counter row and yields the value it held.
const nextSequence = `UPDATE ` + tableSequence + ` SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`

// sequenceCounter numbers LLM events in append order. Parallel workers can
// log events within one clock tick, so listings sort by sequence.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// Next returns the next sequence number, starting at 1.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	if err := sc.db.QueryRowContext(ctx, nextSequence).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
