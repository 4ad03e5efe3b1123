package persistence

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/education/domain/ports"
	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/localid"
)

type AttendeePGStore struct {
	pool pgQuerier
}

func NewAttendeePGStore(pool pgQuerier) ports.AttendeeStore {
	return &AttendeePGStore{pool: pool}
}

func (s *AttendeePGStore) InsertMany(ctx context.Context, recordID string, items []types.AttendeeItem) error {
	for _, item := range items {
		if _, err := s.pool.Exec(ctx, `
INSERT INTO backoffice.education_attendees
  (education_id, name, department, completed)
VALUES ($1, $2, $3, $4)
`, recordID, item.Name, item.Department, item.Completed); err != nil {
			return err
		}
	}
	return nil
}

func (s *AttendeePGStore) UpdateOne(ctx context.Context, id string, item types.AttendeeItem) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE backoffice.education_attendees
SET name = $2, department = $3, completed = $4
WHERE attendee_id = $1
`, id, item.Name, item.Department, item.Completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("attendee " + id + " not found")
	}
	return nil
}

func (s *AttendeePGStore) DeleteOne(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
DELETE FROM backoffice.education_attendees
WHERE attendee_id = $1
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("attendee " + id + " not found")
	}
	return nil
}

func (s *AttendeePGStore) ListByRecordID(ctx context.Context, recordID string) ([]types.AttendeeItem, error) {
	rows, err := s.pool.Query(ctx, `
SELECT
  attendee_id::text,
  education_id::text,
  name,
  department,
  completed
FROM backoffice.education_attendees
WHERE education_id = $1
ORDER BY attendee_id ASC
`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.AttendeeItem
	for rows.Next() {
		var item types.AttendeeItem
		var id string
		if err := rows.Scan(&id, &item.EducationID, &item.Name, &item.Department, &item.Completed); err != nil {
			return nil, err
		}
		item.ID = localid.Persisted(id)
		out = append(out, item)
	}
	return out, rows.Err()
}
