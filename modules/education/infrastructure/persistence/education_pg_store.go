package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanbitworks/backoffice/modules/education/domain/ports"
	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type EducationPGStore struct {
	pool pgQuerier
}

func NewEducationPGStore(pool pgQuerier) ports.EducationStore {
	return &EducationPGStore{pool: pool}
}

const educationColumns = `
  education_id::text,
  code,
  name,
  COALESCE(execution_date::text, ''),
  location,
  education_type,
  instructor,
  team_name,
  status
`

func scanEducation(row pgx.Row) (types.Education, error) {
	var e types.Education
	err := row.Scan(
		&e.ID, &e.Code, &e.Name, &e.ExecutionDate,
		&e.Location, &e.EducationType, &e.Instructor, &e.TeamName, &e.Status,
	)
	return e, err
}

func (s *EducationPGStore) GetEducation(ctx context.Context, id string) (types.Education, error) {
	e, err := scanEducation(s.pool.QueryRow(ctx, `
SELECT `+educationColumns+`
FROM backoffice.educations
WHERE education_id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Education{}, httperr.NewNotFound("education " + id + " not found")
	}
	if err != nil {
		return types.Education{}, err
	}
	return e, nil
}

func (s *EducationPGStore) ListEducations(ctx context.Context) ([]types.Education, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+educationColumns+`
FROM backoffice.educations
ORDER BY execution_date DESC, education_id DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Education
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *EducationPGStore) CreateEducation(ctx context.Context, e types.Education) (string, error) {
	if strings.TrimSpace(e.Name) == "" {
		return "", httperr.NewBadRequest("name is required")
	}
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO backoffice.educations
  (code, name, execution_date, location, education_type, instructor, team_name, status)
VALUES ($1, $2, NULLIF($3, '')::date, $4, $5, $6, $7, $8)
RETURNING education_id::text
`, e.Code, e.Name, e.ExecutionDate, e.Location, e.EducationType, e.Instructor, e.TeamName, e.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *EducationPGStore) UpdateEducation(ctx context.Context, id string, e types.Education) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE backoffice.educations
SET code = $2,
    name = $3,
    execution_date = NULLIF($4, '')::date,
    location = $5,
    education_type = $6,
    instructor = $7,
    team_name = $8,
    status = $9
WHERE education_id = $1
`, id, e.Code, e.Name, e.ExecutionDate, e.Location, e.EducationType, e.Instructor, e.TeamName, e.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("education " + id + " not found")
	}
	return nil
}
