package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var summaryColumns = []string{
	"id", "document_title", "topic", "text", "key_points",
	"practical_examples", "source_refs", "domain_tags", "created_at",
}

// contentRepo implements ContentRepo.
type contentRepo struct {
	store *Store
}

func (r *contentRepo) db() *sql.DB { return r.store.db }

func (r *contentRepo) SaveSummary(ctx context.Context, s *Summary) (int64, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query, args := builder().Insert(tableSummaries).
		Columns(summaryColumns[1:]...).
		Values(
			s.DocumentTitle, s.Topic, s.Text,
			encodeList(s.KeyPoints), encodeList(s.PracticalExamples),
			encodeList(s.References), encodeList(s.DomainTags),
			s.CreatedAt.UnixNano(),
		).
		Query()

	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save summary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("summary id: %w", err)
	}
	s.ID = id
	return id, nil
}

func (r *contentRepo) ListSummaries(ctx context.Context) ([]Summary, error) {
	return r.querySummaries(ctx)
}

// GetSummariesByDomain matches tags in Go. SQLite folds only ASCII case
// and the tags column holds escaped JSON, so a SQL filter would miss tags
// such as "GESTÃO" or "R&D".
func (r *contentRepo) GetSummariesByDomain(ctx context.Context, domain string) ([]Summary, error) {
	candidates, err := r.querySummaries(ctx)
	if err != nil {
		return nil, err
	}

	var out []Summary
	for _, s := range candidates {
		if s.HasDomain(domain) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *contentRepo) UpdateDomainTags(ctx context.Context, id int64, tags []string) error {
	query, args := builder().Update(tableSummaries).
		Set("domain_tags", encodeList(tags)).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update domain tags: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("summary %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *contentRepo) querySummaries(ctx context.Context) ([]Summary, error) {
	query, args := builder().Select(summaryColumns...).
		From(entsql.Table(tableSummaries)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Query()
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var keyPoints, examples, refs, tags string
		var created int64
		if err := rows.Scan(
			&s.ID, &s.DocumentTitle, &s.Topic, &s.Text,
			&keyPoints, &examples, &refs, &tags, &created,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.KeyPoints = decodeList(keyPoints)
		s.PracticalExamples = decodeList(examples)
		s.References = decodeList(refs)
		s.DomainTags = decodeList(tags)
		s.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		// []string always marshals.
		return "[]"
	}
	return string(b)
}

func decodeList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}
