package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	entmigrate "github.com/abhisek/certgen/ent/migrate"
)

// Table names as declared in ent/schema.
const (
	tableSummaries = "summaries"
	tableChunks    = "chunks"
	tableUsage     = "usage_counters"
	tableQuestions = "questions"
	tableLLMEvents = "llm_request_events"
	tableSequence  = "global_sequence"
)

const seedSequence = `INSERT OR IGNORE INTO ` + tableSequence + ` (id, next_val) VALUES (1, 1)`

// migrate brings the database up to the ent schema and seeds the event
// sequence row on first use.
func migrate(ctx context.Context, db *sql.DB) error {
	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := entmigrate.Create(ctx, drv); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, seedSequence); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}
