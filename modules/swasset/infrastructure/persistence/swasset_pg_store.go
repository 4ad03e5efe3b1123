package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanbitworks/backoffice/modules/swasset/domain/ports"
	"github.com/hanbitworks/backoffice/modules/swasset/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SWAssetPGStore struct {
	pool pgQuerier
}

func NewSWAssetPGStore(pool pgQuerier) ports.SWAssetStore {
	return &SWAssetPGStore{pool: pool}
}

const swAssetColumns = `
  sw_asset_id::text,
  code,
  name,
  category,
  solution_provider,
  license_type,
  COALESCE(seats::text, ''),
  COALESCE(registered_date::text, ''),
  status
`

func scanSWAsset(row pgx.Row) (types.SWAsset, error) {
	var a types.SWAsset
	err := row.Scan(
		&a.ID, &a.Code, &a.Name, &a.Category,
		&a.SolutionProvider, &a.LicenseType, &a.Seats, &a.RegisteredDate, &a.Status,
	)
	return a, err
}

func (s *SWAssetPGStore) GetSWAsset(ctx context.Context, id string) (types.SWAsset, error) {
	a, err := scanSWAsset(s.pool.QueryRow(ctx, `
SELECT `+swAssetColumns+`
FROM backoffice.sw_assets
WHERE sw_asset_id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return types.SWAsset{}, httperr.NewNotFound("software asset " + id + " not found")
	}
	if err != nil {
		return types.SWAsset{}, err
	}
	return a, nil
}

func (s *SWAssetPGStore) ListSWAssets(ctx context.Context) ([]types.SWAsset, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+swAssetColumns+`
FROM backoffice.sw_assets
ORDER BY registered_date DESC, sw_asset_id DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.SWAsset
	for rows.Next() {
		a, err := scanSWAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SWAssetPGStore) CreateSWAsset(ctx context.Context, a types.SWAsset) (string, error) {
	if strings.TrimSpace(a.Name) == "" {
		return "", httperr.NewBadRequest("name is required")
	}
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO backoffice.sw_assets
  (code, name, category, solution_provider, license_type, seats, registered_date, status)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::int, NULLIF($7, '')::date, $8)
RETURNING sw_asset_id::text
`, a.Code, a.Name, a.Category, a.SolutionProvider, a.LicenseType, a.Seats, a.RegisteredDate, a.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SWAssetPGStore) UpdateSWAsset(ctx context.Context, id string, a types.SWAsset) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE backoffice.sw_assets
SET code = $2,
    name = $3,
    category = $4,
    solution_provider = $5,
    license_type = $6,
    seats = NULLIF($7, '')::int,
    registered_date = NULLIF($8, '')::date,
    status = $9
WHERE sw_asset_id = $1
`, id, a.Code, a.Name, a.Category, a.SolutionProvider, a.LicenseType, a.Seats, a.RegisteredDate, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("software asset " + id + " not found")
	}
	return nil
}
