package ports

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/swasset/domain/types"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

type SWAssetStore interface {
	GetSWAsset(ctx context.Context, id string) (types.SWAsset, error)
	ListSWAssets(ctx context.Context) ([]types.SWAsset, error)
	CreateSWAsset(ctx context.Context, a types.SWAsset) (string, error)
	UpdateSWAsset(ctx context.Context, id string, a types.SWAsset) error
}

type PurchaseStore = reconcile.ChildStore[types.PurchaseItem]
