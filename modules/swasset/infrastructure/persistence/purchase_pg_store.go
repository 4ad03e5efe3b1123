package persistence

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/swasset/domain/ports"
	"github.com/hanbitworks/backoffice/modules/swasset/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/localid"
)

type PurchasePGStore struct {
	pool pgQuerier
}

func NewPurchasePGStore(pool pgQuerier) ports.PurchaseStore {
	return &PurchasePGStore{pool: pool}
}

func (s *PurchasePGStore) InsertMany(ctx context.Context, recordID string, items []types.PurchaseItem) error {
	for _, item := range items {
		if _, err := s.pool.Exec(ctx, `
INSERT INTO backoffice.sw_asset_purchases
  (sw_asset_id, purchase_date, quantity, amount, note)
VALUES ($1, NULLIF($2, '')::date, NULLIF($3, '')::int, NULLIF($4, '')::numeric, $5)
`, recordID, item.PurchaseDate, item.Quantity, item.Amount, item.Note); err != nil {
			return err
		}
	}
	return nil
}

func (s *PurchasePGStore) UpdateOne(ctx context.Context, id string, item types.PurchaseItem) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE backoffice.sw_asset_purchases
SET purchase_date = NULLIF($2, '')::date,
    quantity = NULLIF($3, '')::int,
    amount = NULLIF($4, '')::numeric,
    note = $5
WHERE purchase_id = $1
`, id, item.PurchaseDate, item.Quantity, item.Amount, item.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("purchase " + id + " not found")
	}
	return nil
}

func (s *PurchasePGStore) DeleteOne(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
DELETE FROM backoffice.sw_asset_purchases
WHERE purchase_id = $1
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NewNotFound("purchase " + id + " not found")
	}
	return nil
}

func (s *PurchasePGStore) ListByRecordID(ctx context.Context, recordID string) ([]types.PurchaseItem, error) {
	rows, err := s.pool.Query(ctx, `
SELECT
  purchase_id::text,
  sw_asset_id::text,
  COALESCE(purchase_date::text, ''),
  COALESCE(quantity::text, ''),
  COALESCE(amount::text, ''),
  note
FROM backoffice.sw_asset_purchases
WHERE sw_asset_id = $1
ORDER BY purchase_date DESC, purchase_id DESC
`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.PurchaseItem
	for rows.Next() {
		var item types.PurchaseItem
		var id string
		if err := rows.Scan(&id, &item.SWAssetID, &item.PurchaseDate, &item.Quantity, &item.Amount, &item.Note); err != nil {
			return nil, err
		}
		item.ID = localid.Persisted(id)
		out = append(out, item)
	}
	return out, rows.Err()
}
