package persistence

import (
	"context"
	"strconv"
	"sync"

	"github.com/hanbitworks/backoffice/modules/education/domain/ports"
	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/localid"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

// EducationMemoryStore backs DB-less dev servers and tests.
type EducationMemoryStore struct {
	mu   sync.Mutex
	seq  uint64
	rows map[string]types.Education
	ids  []string
}

func NewEducationMemoryStore() *EducationMemoryStore {
	return &EducationMemoryStore{rows: map[string]types.Education{}}
}

var _ ports.EducationStore = (*EducationMemoryStore)(nil)

func (s *EducationMemoryStore) GetEducation(_ context.Context, id string) (types.Education, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[id]
	if !ok {
		return types.Education{}, httperr.NewNotFound("education " + id + " not found")
	}
	return e, nil
}

func (s *EducationMemoryStore) ListEducations(_ context.Context) ([]types.Education, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Education, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.rows[id])
	}
	return out, nil
}

func (s *EducationMemoryStore) CreateEducation(_ context.Context, e types.Education) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := strconv.FormatUint(s.seq, 10)
	e.ID = id
	s.rows[id] = e
	s.ids = append(s.ids, id)
	return id, nil
}

func (s *EducationMemoryStore) UpdateEducation(_ context.Context, id string, e types.Education) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return httperr.NewNotFound("education " + id + " not found")
	}
	e.ID = id
	s.rows[id] = e
	return nil
}

func NewCurriculumMemoryStore() *reconcile.MemoryStore[types.CurriculumItem] {
	return reconcile.NewMemoryStore(func(i types.CurriculumItem, id string, recordID string) types.CurriculumItem {
		i.ID = localid.Persisted(id)
		i.EducationID = recordID
		return i
	})
}

func NewAttendeeMemoryStore() *reconcile.MemoryStore[types.AttendeeItem] {
	return reconcile.NewMemoryStore(func(i types.AttendeeItem, id string, recordID string) types.AttendeeItem {
		i.ID = localid.Persisted(id)
		i.EducationID = recordID
		return i
	})
}
