package persistence

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/education/domain/ports"
	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/localid"
)

// CurriculumPGStore persists an education's ordered sessions. Rows are
// listed by order_no, which the dialog re-stamps on every insert and
// delete, so the staged order survives a reload.
type CurriculumPGStore struct {
	pool pgQuerier
}

func NewCurriculumPGStore(pool pgQuerier) ports.CurriculumStore {
	return &CurriculumPGStore{pool: pool}
}

func (s *CurriculumPGStore) InsertMany(ctx context.Context, recordID string, items []types.CurriculumItem) error {
	for _, item := range items {
		if _, err := s.pool.Exec(ctx, `
INSERT INTO backoffice.education_curriculum
  (education_id, order_no, title, instructor, minutes)
VALUES ($1, $2, $3, $4, NULLIF($5, '')::int)
`, recordID, item.OrderNo, item.Title, item.Instructor, item.Minutes); err != nil {
			return err
		}
	}
	return nil
}

func (s *CurriculumPGStore) UpdateOne(ctx context.Context, id string, item types.CurriculumItem) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE backoffice.education_curriculum
SET order_no = $2, title = $3, instructor = $4, minutes = NULLIF($5, '')::int
WHERE curriculum_id = $1
`, id, item.OrderNo, item.Title, item.Instructor, item.Minutes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("curriculum item " + id + " not found")
	}
	return nil
}

func (s *CurriculumPGStore) DeleteOne(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
DELETE FROM backoffice.education_curriculum
WHERE curriculum_id = $1
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("curriculum item " + id + " not found")
	}
	return nil
}

func (s *CurriculumPGStore) ListByRecordID(ctx context.Context, recordID string) ([]types.CurriculumItem, error) {
	rows, err := s.pool.Query(ctx, `
SELECT
  curriculum_id::text,
  education_id::text,
  order_no,
  title,
  instructor,
  COALESCE(minutes::text, '')
FROM backoffice.education_curriculum
WHERE education_id = $1
ORDER BY order_no ASC, curriculum_id ASC
`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.CurriculumItem
	for rows.Next() {
		var item types.CurriculumItem
		var id string
		if err := rows.Scan(&id, &item.EducationID, &item.OrderNo, &item.Title, &item.Instructor, &item.Minutes); err != nil {
			return nil, err
		}
		item.ID = localid.Persisted(id)
		out = append(out, item)
	}
	return out, rows.Err()
}
