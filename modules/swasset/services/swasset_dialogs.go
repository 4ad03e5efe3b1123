package services

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/swasset/domain/ports"
	"github.com/hanbitworks/backoffice/modules/swasset/domain/types"
	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/comments"
	"github.com/hanbitworks/backoffice/pkg/dialog"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/editor"
	"github.com/hanbitworks/backoffice/pkg/kindcfg"
	"github.com/hanbitworks/backoffice/pkg/localid"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

// SWAssetDialogs opens edit dialogs for software asset records: the
// scalar form plus the purchase-history and comment collections.
type SWAssetDialogs struct {
	kind      kindcfg.Kind
	store     ports.SWAssetStore
	purchases ports.PurchaseStore
	comments  reconcile.ChildStore[comments.Comment]
	codes     bizcode.Generator
	drafts    *draft.Store
	author    func(ctx context.Context) string
}

func NewSWAssetDialogs(
	kind kindcfg.Kind,
	store ports.SWAssetStore,
	purchases ports.PurchaseStore,
	commentStore reconcile.ChildStore[comments.Comment],
	codes bizcode.Generator,
	drafts *draft.Store,
	author func(ctx context.Context) string,
) SWAssetDialogs {
	return SWAssetDialogs{
		kind:      kind,
		store:     store,
		purchases: purchases,
		comments:  commentStore,
		codes:     codes,
		drafts:    drafts,
		author:    author,
	}
}

func (s SWAssetDialogs) Open(ctx context.Context, mode draft.Mode, recordID string) (*dialog.Session, error) {
	author := "system"
	if s.author != nil {
		author = s.author(ctx)
	}

	commentsCol, _ := s.kind.Collection("comments")
	cfg := dialog.Config{
		Kind:    s.kind,
		Records: swAssetRecordOps{store: s.store},
		Codes:   s.codes,
		Drafts:  s.drafts,
		Collections: []dialog.Spec{
			dialog.CollectionSpec[types.PurchaseItem]{
				Name:   "purchases",
				Editor: purchaseEditor(s.kind),
				Store:  s.purchases,
			},
			dialog.CollectionSpec[comments.Comment]{
				Name:         commentsCol.Name,
				Editor:       comments.EditorConfig(commentsCol.PageSize, author),
				Store:        s.comments,
				ReverseAdded: commentsCol.ReverseInsert,
			},
		},
	}
	return dialog.Open(ctx, cfg, mode, recordID)
}

func purchaseEditor(kind kindcfg.Kind) editor.Config[types.PurchaseItem] {
	col, _ := kind.Collection("purchases")
	return editor.Config[types.PurchaseItem]{
		PageSize: col.PageSize,
		NewItem:  func(id localid.ID) types.PurchaseItem { return types.PurchaseItem{ID: id} },
		SetField: func(i types.PurchaseItem, field, value string) types.PurchaseItem {
			switch field {
			case "purchase_date":
				i.PurchaseDate = value
			case "quantity":
				i.Quantity = editor.ClampInt(value)
			case "amount":
				i.Amount = editor.ClampDecimal(value)
			case "note":
				i.Note = value
			}
			return i
		},
	}
}

type swAssetRecordOps struct {
	store ports.SWAssetStore
}

func (o swAssetRecordOps) Load(ctx context.Context, id string) (map[string]string, error) {
	a, err := o.store.GetSWAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"code":              a.Code,
		"name":              a.Name,
		"category":          a.Category,
		"solution_provider": a.SolutionProvider,
		"license_type":      a.LicenseType,
		"seats":             a.Seats,
		"registered_date":   a.RegisteredDate,
		"status":            a.Status,
	}, nil
}

func (o swAssetRecordOps) Create(ctx context.Context, fields map[string]string) (string, error) {
	return o.store.CreateSWAsset(ctx, swAssetFromFields(fields))
}

func (o swAssetRecordOps) Update(ctx context.Context, id string, fields map[string]string) error {
	return o.store.UpdateSWAsset(ctx, id, swAssetFromFields(fields))
}

func swAssetFromFields(fields map[string]string) types.SWAsset {
	return types.SWAsset{
		Code:             fields["code"],
		Name:             fields["name"],
		Category:         fields["category"],
		SolutionProvider: fields["solution_provider"],
		LicenseType:      fields["license_type"],
		// Seats is a scalar field, so it bypasses the collection
		// editors; coerce here so the int cast cannot fail at write.
		Seats:          editor.ClampInt(fields["seats"]),
		RegisteredDate: fields["registered_date"],
		Status:         fields["status"],
	}
}
