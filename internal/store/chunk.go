package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *contentRepo) ReplaceChunks(ctx context.Context, fileName string, chunks []Chunk) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Delete(tableChunks).
		Where(entsql.EQ("file_name", fileName)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete chunks of %s: %w", fileName, err)
	}

	for i := range chunks {
		c := &chunks[i]
		c.FileName = fileName
		query, args := builder().Insert(tableChunks).
			Columns("file_name", "sequence_number", "raw_text").
			Values(fileName, c.Sequence, c.Text).
			Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert chunk %s#%d: %w", fileName, c.Sequence, err)
		}
		if id, err := res.LastInsertId(); err == nil {
			c.ID = id
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunks: %w", err)
	}
	return nil
}

func (r *contentRepo) GetChunks(ctx context.Context) ([]Chunk, error) {
	query, args := builder().Select("id", "file_name", "sequence_number", "raw_text").
		From(entsql.Table(tableChunks)).
		OrderBy("file_name", "sequence_number").
		Query()

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var out []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.ID, &c.FileName, &c.Sequence, &c.Text); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
