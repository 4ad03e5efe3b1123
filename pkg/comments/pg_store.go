package comments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanbitworks/backoffice/pkg/localid"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore persists one record kind's comment thread. The table and
// foreign-key column differ per kind; everything else is shared.
type PGStore struct {
	pool     pgQuerier
	table    string
	fkColumn string
}

func NewPGStore(pool pgQuerier, table string, fkColumn string) *PGStore {
	return &PGStore{pool: pool, table: table, fkColumn: fkColumn}
}

var _ reconcile.ChildStore[Comment] = (*PGStore)(nil)

// InsertMany inserts sequentially in slice order; the store's own
// insertion order is the persisted ordering of the thread.
func (s *PGStore) InsertMany(ctx context.Context, recordID string, items []Comment) error {
	sql := fmt.Sprintf(`
INSERT INTO %s (%s, author, body)
VALUES ($1, $2, $3)
`, s.table, s.fkColumn)
	for _, c := range items {
		if _, err := s.pool.Exec(ctx, sql, recordID, c.Author, c.Body); err != nil {
			return err
		}
	}
	return nil
}

func (s *PGStore) UpdateOne(ctx context.Context, id string, item Comment) error {
	sql := fmt.Sprintf(`
UPDATE %s
SET author = $2, body = $3
WHERE comment_id = $1
`, s.table)
	tag, err := s.pool.Exec(ctx, sql, id, item.Author, item.Body)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comments: comment %s not found", id)
	}
	return nil
}

func (s *PGStore) DeleteOne(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE comment_id = $1`, s.table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comments: comment %s not found", id)
	}
	return nil
}

// ListByRecordID returns the thread in display order, newest first.
func (s *PGStore) ListByRecordID(ctx context.Context, recordID string) ([]Comment, error) {
	sql := fmt.Sprintf(`
SELECT comment_id::text, %s::text, author, body, to_char(created_at, 'YYYY-MM-DD HH24:MI:SS')
FROM %s
WHERE %s = $1
ORDER BY created_at DESC, comment_id DESC
`, s.fkColumn, s.table, s.fkColumn)

	rows, err := s.pool.Query(ctx, sql, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var id string
		if err := rows.Scan(&id, &c.RecordID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ID = localid.Persisted(id)
		out = append(out, c)
	}
	return out, rows.Err()
}
