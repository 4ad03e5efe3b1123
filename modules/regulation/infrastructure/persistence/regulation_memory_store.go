package persistence

import (
	"context"
	"strconv"
	"sync"

	"github.com/hanbitworks/backoffice/modules/regulation/domain/ports"
	"github.com/hanbitworks/backoffice/modules/regulation/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
)

type RegulationMemoryStore struct {
	mu   sync.Mutex
	seq  uint64
	rows map[string]types.Regulation
	ids  []string
}

func NewRegulationMemoryStore() *RegulationMemoryStore {
	return &RegulationMemoryStore{rows: map[string]types.Regulation{}}
}

var _ ports.RegulationStore = (*RegulationMemoryStore)(nil)

func (s *RegulationMemoryStore) GetRegulation(_ context.Context, id string) (types.Regulation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return types.Regulation{}, httperr.NewNotFound("regulation " + id + " not found")
	}
	return r, nil
}

func (s *RegulationMemoryStore) ListRegulations(_ context.Context) ([]types.Regulation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Regulation, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.rows[id])
	}
	return out, nil
}

func (s *RegulationMemoryStore) CreateRegulation(_ context.Context, r types.Regulation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := strconv.FormatUint(s.seq, 10)
	r.ID = id
	s.rows[id] = r
	s.ids = append(s.ids, id)
	return id, nil
}

func (s *RegulationMemoryStore) UpdateRegulation(_ context.Context, id string, r types.Regulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return httperr.NewNotFound("regulation " + id + " not found")
	}
	r.ID = id
	s.rows[id] = r
	return nil
}
