package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var questionColumns = []string{
	"id", "question_text", "options", "correct_index",
	"explanation", "topic", "metadata", "created_at",
}

func (r *contentRepo) SaveQuestion(ctx context.Context, q *GeneratedQuestion) (string, error) {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return "", fmt.Errorf("save question: correct index %d out of range", q.CorrectIndex)
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	options, err := json.Marshal(q.Options)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	meta, err := json.Marshal(q.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}

	query, args := builder().Insert(tableQuestions).
		Columns(questionColumns...).
		Values(
			q.ID, q.QuestionText, string(options), q.CorrectIndex,
			q.Explanation, q.Topic, string(meta), q.CreatedAt.UnixNano(),
		).
		Query()
	if _, err := r.db().ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("save question: %w", err)
	}
	return q.ID, nil
}

func (r *contentRepo) ListQuestions(ctx context.Context, opts QueryOpts) ([]GeneratedQuestion, error) {
	sel := builder().Select(questionColumns...).
		From(entsql.Table(tableQuestions)).
		OrderBy(entsql.Desc("created_at"))

	var preds []*entsql.Predicate
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", opts.From.UnixNano()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", opts.To.UnixNano()))
	}
	if opts.Topic != "" {
		preds = append(preds, entsql.EQ("topic", opts.Topic))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []GeneratedQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *contentRepo) GetQuestion(ctx context.Context, id string) (*GeneratedQuestion, error) {
	query, args := builder().Select(questionColumns...).
		From(entsql.Table(tableQuestions)).
		Where(entsql.EQ("id", id)).
		Query()

	q, err := scanQuestion(r.db().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

func (r *contentRepo) DeleteQuestion(ctx context.Context, id string) error {
	query, args := builder().Delete(tableQuestions).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanQuestion(row rowScanner) (*GeneratedQuestion, error) {
	var q GeneratedQuestion
	var options, meta string
	var created int64
	err := row.Scan(
		&q.ID, &q.QuestionText, &options, &q.CorrectIndex,
		&q.Explanation, &q.Topic, &meta, &created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, fmt.Errorf("decode options of %s: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(meta), &q.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", q.ID, err)
	}
	q.CreatedAt = time.Unix(0, created).UTC()
	return &q, nil
}
