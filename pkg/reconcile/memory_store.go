package reconcile

import (
	"context"
	"strconv"
	"sync"

	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/localid"
)

// MemoryStore is an in-process ChildStore used by DB-less dev servers
// and tests. Rows keep their insertion order per record, which is the
// ordering contract the runner's reverse-submission relies on.
type MemoryStore[T Keyed] struct {
	mu   sync.Mutex
	seq  uint64
	rows map[string][]row[T]

	// Rebind stamps the assigned persisted id and the parent record id
	// onto a stored item, mirroring what a SQL RETURNING clause leaves
	// behind.
	rebind func(item T, id string, recordID string) T
}

type row[T Keyed] struct {
	id   string
	item T
}

func NewMemoryStore[T Keyed](rebind func(item T, id string, recordID string) T) *MemoryStore[T] {
	return &MemoryStore[T]{rows: map[string][]row[T]{}, rebind: rebind}
}

func (s *MemoryStore[T]) InsertMany(_ context.Context, recordID string, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.seq++
		id := strconv.FormatUint(s.seq, 10)
		s.rows[recordID] = append(s.rows[recordID], row[T]{id: id, item: s.rebind(item, id, recordID)})
	}
	return nil
}

func (s *MemoryStore[T]) UpdateOne(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for recordID, rows := range s.rows {
		for i, r := range rows {
			if r.id == id {
				s.rows[recordID][i].item = s.rebind(item, id, recordID)
				return nil
			}
		}
	}
	return httperr.NewNotFound("child item " + id + " not found")
}

func (s *MemoryStore[T]) DeleteOne(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for recordID, rows := range s.rows {
		for i, r := range rows {
			if r.id == id {
				s.rows[recordID] = append(rows[:i:i], rows[i+1:]...)
				return nil
			}
		}
	}
	return httperr.NewNotFound("child item " + id + " not found")
}

func (s *MemoryStore[T]) ListByRecordID(_ context.Context, recordID string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.rows[recordID]
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out, nil
}

// Count reports the number of rows stored for a record.
func (s *MemoryStore[T]) Count(recordID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[recordID])
}

var _ ChildStore[compileCheckItem] = (*MemoryStore[compileCheckItem])(nil)

type compileCheckItem struct{ id localid.ID }

func (p compileCheckItem) ItemID() localid.ID { return p.id }
