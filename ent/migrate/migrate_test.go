package migrate

import (
	"context"
	"database/sql"
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	entschema "github.com/abhisek/certgen/ent/schema"

	_ "modernc.org/sqlite"
)

func fieldsOf(def ent.Interface) []ent.Field {
	var fields []ent.Field
	for _, m := range def.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	return append(fields, def.Fields()...)
}

func TestTablesMatchSchema(t *testing.T) {
	tests := []struct {
		def   ent.Interface
		table *schema.Table
	}{
		{entschema.Chunk{}, ChunksTable},
		{entschema.GlobalSequence{}, GlobalSequenceTable},
		{entschema.LLMRequestEvent{}, LlmRequestEventsTable},
		{entschema.GeneratedQuestion{}, QuestionsTable},
		{entschema.Summary{}, SummariesTable},
		{entschema.UsageCounter{}, UsageCountersTable},
	}

	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			columns := make(map[string]*schema.Column, len(tt.table.Columns))
			for _, c := range tt.table.Columns {
				columns[c.Name] = c
			}

			want := map[string]bool{"id": true}
			for _, f := range fieldsOf(tt.def) {
				d := f.Descriptor()
				want[d.Name] = true
				c, ok := columns[d.Name]
				if !ok {
					t.Errorf("field %q has no column", d.Name)
					continue
				}
				if d.Unique && !c.Unique {
					t.Errorf("field %q is unique but its column is not", d.Name)
				}
			}
			for name := range columns {
				if !want[name] {
					t.Errorf("column %q has no field", name)
				}
			}
		})
	}
}

func TestCreate_Idempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("pragma: %v", err)
	}

	ctx := context.Background()
	drv := entsql.OpenDB(dialect.SQLite, db)
	for i := 0; i < 2; i++ {
		if err := Create(ctx, drv); err != nil {
			t.Fatalf("create #%d: %v", i+1, err)
		}
	}

	for _, table := range Tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table.Name, err)
		}
	}
}
