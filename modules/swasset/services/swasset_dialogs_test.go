package services

import (
	"context"
	"strings"
	"testing"

	"github.com/hanbitworks/backoffice/modules/swasset/domain/types"
	"github.com/hanbitworks/backoffice/modules/swasset/infrastructure/persistence"
	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/comments"
	"github.com/hanbitworks/backoffice/pkg/dialog"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/kindcfg"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

func newDialogs(t *testing.T) (SWAssetDialogs, *persistence.SWAssetMemoryStore, *reconcile.MemoryStore[types.PurchaseItem]) {
	t.Helper()
	kind, ok := kindcfg.Default().Kind(kindcfg.KindSWAsset)
	if !ok {
		t.Fatalf("missing swasset kind")
	}
	store := persistence.NewSWAssetMemoryStore()
	purchases := persistence.NewPurchaseMemoryStore()
	dialogs := NewSWAssetDialogs(
		kind, store, purchases, reconcile.NewMemoryStore(comments.Rebind),
		bizcode.NewMemoryGenerator(), draft.NewStore(draft.NewMemoryKV()), nil,
	)
	return dialogs, store, purchases
}

func TestAddAssetSavesPurchases(t *testing.T) {
	ctx := context.Background()
	dialogs, store, purchases := newDialogs(t)

	s, err := dialogs.Open(ctx, draft.ModeAdd, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if code := s.Fields()["code"]; !strings.HasPrefix(code, "IT-SW-") {
		t.Fatalf("seeded code: %q", code)
	}
	for name, value := range map[string]string{
		"name": "백신 솔루션", "category": "보안",
		"solution_provider": "안랩", "license_type": "구독",
	} {
		if err := s.SetField(name, value); err != nil {
			t.Fatalf("SetField(%s): %v", name, err)
		}
	}

	col, _ := s.Collection("purchases")
	added := col.Add(ctx).(types.PurchaseItem)
	col.EditField(ctx, added.ID, "purchase_date", "2025-02-01")
	col.EditField(ctx, added.ID, "quantity", "200")

	res, err := s.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec, err := store.GetSWAsset(ctx, res.RecordID)
	if err != nil || rec.Name != "백신 솔루션" {
		t.Fatalf("saved record: %+v err=%v", rec, err)
	}
	rows, _ := purchases.ListByRecordID(ctx, res.RecordID)
	if len(rows) != 1 || rows[0].Quantity != "200" || rows[0].SWAssetID != res.RecordID {
		t.Fatalf("purchase rows: %+v", rows)
	}
}

func TestEditAssetDeletesSelectedPurchase(t *testing.T) {
	ctx := context.Background()
	dialogs, store, purchases := newDialogs(t)

	id, err := store.CreateSWAsset(ctx, swAssetFromFields(map[string]string{
		"name": "OS 라이선스", "category": "시스템",
		"solution_provider": "마이크로소프트", "license_type": "볼륨",
	}))
	if err != nil {
		t.Fatalf("CreateSWAsset: %v", err)
	}
	_ = purchases.InsertMany(ctx, id, []types.PurchaseItem{
		{PurchaseDate: "2024-01-10", Quantity: "50"},
		{PurchaseDate: "2024-06-10", Quantity: "30"},
	})

	s, err := dialogs.Open(ctx, draft.ModeEdit, id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rows, _ := purchases.ListByRecordID(ctx, id)
	col, _ := s.Collection("purchases")
	col.ToggleSelect(rows[1].ID)
	if col.DeleteSelected(ctx) != 1 {
		t.Fatalf("expected one staged delete")
	}

	if _, err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	after, _ := purchases.ListByRecordID(ctx, id)
	if len(after) != 1 || after[0].Quantity != "50" {
		t.Fatalf("purchases after save: %+v", after)
	}
}

func TestPurchaseNumericFieldsCoerced(t *testing.T) {
	ctx := context.Background()
	dialogs, _, _ := newDialogs(t)

	s, err := dialogs.Open(ctx, draft.ModeAdd, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	col, _ := s.Collection("purchases")
	added := col.Add(ctx).(types.PurchaseItem)

	col.EditField(ctx, added.ID, "quantity", "many")
	col.EditField(ctx, added.ID, "amount", "1200.50")
	items, _ := dialog.Items[types.PurchaseItem](s, "purchases")
	if items[0].Quantity != "0" {
		t.Fatalf("non-numeric quantity must clamp to 0, staged %q", items[0].Quantity)
	}
	if items[0].Amount != "1200.50" {
		t.Fatalf("decimal amount must stage as given, staged %q", items[0].Amount)
	}

	col.EditField(ctx, added.ID, "amount", "약 백만원")
	items, _ = dialog.Items[types.PurchaseItem](s, "purchases")
	if items[0].Amount != "0" {
		t.Fatalf("non-numeric amount must clamp to 0, staged %q", items[0].Amount)
	}
}

func TestSeatsCoercedOnSave(t *testing.T) {
	ctx := context.Background()
	dialogs, store, _ := newDialogs(t)

	s, err := dialogs.Open(ctx, draft.ModeAdd, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for name, value := range map[string]string{
		"name": "그래픽 툴", "category": "디자인",
		"solution_provider": "어도비", "license_type": "구독",
		"seats": "unlimited",
	} {
		if err := s.SetField(name, value); err != nil {
			t.Fatalf("SetField(%s): %v", name, err)
		}
	}

	res, err := s.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec, err := store.GetSWAsset(ctx, res.RecordID)
	if err != nil {
		t.Fatalf("GetSWAsset: %v", err)
	}
	if rec.Seats != "0" {
		t.Fatalf("non-numeric seats must persist as 0, got %q", rec.Seats)
	}
}
