package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanbitworks/backoffice/modules/seceducation/domain/ports"
	"github.com/hanbitworks/backoffice/modules/seceducation/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SecEducationPGStore struct {
	pool pgQuerier
}

func NewSecEducationPGStore(pool pgQuerier) ports.SecEducationStore {
	return &SecEducationPGStore{pool: pool}
}

const secEducationColumns = `
  sec_education_id::text,
  code,
  name,
  COALESCE(execution_date::text, ''),
  location,
  education_type,
  target_audience,
  status
`

func scanSecEducation(row pgx.Row) (types.SecEducation, error) {
	var e types.SecEducation
	err := row.Scan(
		&e.ID, &e.Code, &e.Name, &e.ExecutionDate,
		&e.Location, &e.EducationType, &e.TargetAudience, &e.Status,
	)
	return e, err
}

func (s *SecEducationPGStore) GetSecEducation(ctx context.Context, id string) (types.SecEducation, error) {
	e, err := scanSecEducation(s.pool.QueryRow(ctx, `
SELECT `+secEducationColumns+`
FROM backoffice.sec_educations
WHERE sec_education_id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return types.SecEducation{}, httperr.NewNotFound("security education " + id + " not found")
	}
	if err != nil {
		return types.SecEducation{}, err
	}
	return e, nil
}

func (s *SecEducationPGStore) ListSecEducations(ctx context.Context) ([]types.SecEducation, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+secEducationColumns+`
FROM backoffice.sec_educations
ORDER BY execution_date DESC, sec_education_id DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.SecEducation
	for rows.Next() {
		e, err := scanSecEducation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SecEducationPGStore) CreateSecEducation(ctx context.Context, e types.SecEducation) (string, error) {
	if strings.TrimSpace(e.Name) == "" {
		return "", httperr.NewBadRequest("name is required")
	}
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO backoffice.sec_educations
  (code, name, execution_date, location, education_type, target_audience, status)
VALUES ($1, $2, NULLIF($3, '')::date, $4, $5, $6, $7)
RETURNING sec_education_id::text
`, e.Code, e.Name, e.ExecutionDate, e.Location, e.EducationType, e.TargetAudience, e.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SecEducationPGStore) UpdateSecEducation(ctx context.Context, id string, e types.SecEducation) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE backoffice.sec_educations
SET code = $2,
    name = $3,
    execution_date = NULLIF($4, '')::date,
    location = $5,
    education_type = $6,
    target_audience = $7,
    status = $8
WHERE sec_education_id = $1
`, id, e.Code, e.Name, e.ExecutionDate, e.Location, e.EducationType, e.TargetAudience, e.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("security education " + id + " not found")
	}
	return nil
}
