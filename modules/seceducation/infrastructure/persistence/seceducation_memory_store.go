package persistence

import (
	"context"
	"strconv"
	"sync"

	"github.com/hanbitworks/backoffice/modules/seceducation/domain/ports"
	"github.com/hanbitworks/backoffice/modules/seceducation/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/localid"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

type SecEducationMemoryStore struct {
	mu   sync.Mutex
	seq  uint64
	rows map[string]types.SecEducation
	ids  []string
}

func NewSecEducationMemoryStore() *SecEducationMemoryStore {
	return &SecEducationMemoryStore{rows: map[string]types.SecEducation{}}
}

var _ ports.SecEducationStore = (*SecEducationMemoryStore)(nil)

func (s *SecEducationMemoryStore) GetSecEducation(_ context.Context, id string) (types.SecEducation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[id]
	if !ok {
		return types.SecEducation{}, httperr.NewNotFound("security education " + id + " not found")
	}
	return e, nil
}

func (s *SecEducationMemoryStore) ListSecEducations(_ context.Context) ([]types.SecEducation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.SecEducation, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.rows[id])
	}
	return out, nil
}

func (s *SecEducationMemoryStore) CreateSecEducation(_ context.Context, e types.SecEducation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := strconv.FormatUint(s.seq, 10)
	e.ID = id
	s.rows[id] = e
	s.ids = append(s.ids, id)
	return id, nil
}

func (s *SecEducationMemoryStore) UpdateSecEducation(_ context.Context, id string, e types.SecEducation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return httperr.NewNotFound("security education " + id + " not found")
	}
	e.ID = id
	s.rows[id] = e
	return nil
}

func NewAttendeeMemoryStore() *reconcile.MemoryStore[types.AttendeeItem] {
	return reconcile.NewMemoryStore(func(i types.AttendeeItem, id string, recordID string) types.AttendeeItem {
		i.ID = localid.Persisted(id)
		i.SecEducationID = recordID
		return i
	})
}
