package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanbitworks/backoffice/modules/regulation/domain/ports"
	"github.com/hanbitworks/backoffice/modules/regulation/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RegulationPGStore struct {
	pool pgQuerier
}

func NewRegulationPGStore(pool pgQuerier) ports.RegulationStore {
	return &RegulationPGStore{pool: pool}
}

const regulationColumns = `
  regulation_id::text,
  code,
  title,
  document_type,
  assignee,
  team_name,
  COALESCE(due_date::text, ''),
  COALESCE(created_date::text, ''),
  status
`

func scanRegulation(row pgx.Row) (types.Regulation, error) {
	var r types.Regulation
	err := row.Scan(
		&r.ID, &r.Code, &r.Title, &r.DocumentType,
		&r.Assignee, &r.TeamName, &r.DueDate, &r.CreatedDate, &r.Status,
	)
	return r, err
}

func (s *RegulationPGStore) GetRegulation(ctx context.Context, id string) (types.Regulation, error) {
	r, err := scanRegulation(s.pool.QueryRow(ctx, `
SELECT `+regulationColumns+`
FROM backoffice.regulations
WHERE regulation_id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Regulation{}, httperr.NewNotFound("regulation " + id + " not found")
	}
	if err != nil {
		return types.Regulation{}, err
	}
	return r, nil
}

func (s *RegulationPGStore) ListRegulations(ctx context.Context) ([]types.Regulation, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+regulationColumns+`
FROM backoffice.regulations
ORDER BY created_date DESC, regulation_id DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Regulation
	for rows.Next() {
		r, err := scanRegulation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *RegulationPGStore) CreateRegulation(ctx context.Context, r types.Regulation) (string, error) {
	if strings.TrimSpace(r.Title) == "" {
		return "", httperr.NewBadRequest("title is required")
	}
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO backoffice.regulations
  (code, title, document_type, assignee, team_name, due_date, created_date, status)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::date, NULLIF($7, '')::date, $8)
RETURNING regulation_id::text
`, r.Code, r.Title, r.DocumentType, r.Assignee, r.TeamName, r.DueDate, r.CreatedDate, r.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *RegulationPGStore) UpdateRegulation(ctx context.Context, id string, r types.Regulation) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE backoffice.regulations
SET code = $2,
    title = $3,
    document_type = $4,
    assignee = $5,
    team_name = $6,
    due_date = NULLIF($7, '')::date,
    created_date = NULLIF($8, '')::date,
    status = $9
WHERE regulation_id = $1
`, id, r.Code, r.Title, r.DocumentType, r.Assignee, r.TeamName, r.DueDate, r.CreatedDate, r.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("regulation " + id + " not found")
	}
	return nil
}
