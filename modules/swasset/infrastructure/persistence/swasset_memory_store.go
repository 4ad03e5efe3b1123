package persistence

import (
	"context"
	"strconv"
	"sync"

	"github.com/hanbitworks/backoffice/modules/swasset/domain/ports"
	"github.com/hanbitworks/backoffice/modules/swasset/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/localid"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

type SWAssetMemoryStore struct {
	mu   sync.Mutex
	seq  uint64
	rows map[string]types.SWAsset
	ids  []string
}

func NewSWAssetMemoryStore() *SWAssetMemoryStore {
	return &SWAssetMemoryStore{rows: map[string]types.SWAsset{}}
}

var _ ports.SWAssetStore = (*SWAssetMemoryStore)(nil)

func (s *SWAssetMemoryStore) GetSWAsset(_ context.Context, id string) (types.SWAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return types.SWAsset{}, httperr.NewNotFound("software asset " + id + " not found")
	}
	return a, nil
}

func (s *SWAssetMemoryStore) ListSWAssets(_ context.Context) ([]types.SWAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.SWAsset, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.rows[id])
	}
	return out, nil
}

func (s *SWAssetMemoryStore) CreateSWAsset(_ context.Context, a types.SWAsset) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := strconv.FormatUint(s.seq, 10)
	a.ID = id
	s.rows[id] = a
	s.ids = append(s.ids, id)
	return id, nil
}

func (s *SWAssetMemoryStore) UpdateSWAsset(_ context.Context, id string, a types.SWAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return httperr.NewNotFound("software asset " + id + " not found")
	}
	a.ID = id
	s.rows[id] = a
	return nil
}

func NewPurchaseMemoryStore() *reconcile.MemoryStore[types.PurchaseItem] {
	return reconcile.NewMemoryStore(func(i types.PurchaseItem, id string, recordID string) types.PurchaseItem {
		i.ID = localid.Persisted(id)
		i.SWAssetID = recordID
		return i
	})
}
