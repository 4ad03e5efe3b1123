// Package draft holds the staged state of child-collection edits while
// the parent record's dialog is open. Reads always observe the latest
// write through a mutex-guarded in-memory mirror; every write is also
// pushed through to a durable session-scoped KV so a dialog reopened
// after an accidental close recovers its draft instead of losing it.
package draft

import (
	"context"
	"encoding/json"
	"log"
	"slices"
	"sync"
)

// Mode distinguishes a dialog creating a record from one editing a
// persisted record. The two never share draft entries.
type Mode string

const (
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

// NewRecordID keys add-mode drafts, which have no persisted record id
// yet.
const NewRecordID = "new"

// Key addresses one staged collection.
type Key struct {
	Kind       string
	Mode       Mode
	RecordID   string
	Collection string
}

// StorageKey is the namespaced KV key. The record id precedes the
// collection so one dialog session's entries share a prefix.
func (k Key) StorageKey() string {
	return SessionPrefix(k.Kind, k.Mode, k.RecordID) + k.Collection
}

// SessionPrefix covers every collection staged by one dialog session.
func SessionPrefix(kind string, mode Mode, recordID string) string {
	if recordID == "" {
		recordID = NewRecordID
	}
	return "draft/" + kind + "/" + string(mode) + "/" + recordID + "/"
}

// KV is the durable session-scoped key/value area backing the store.
type KV interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

var logf = log.Printf

// Store mirrors staged collections in memory and writes them through
// to the KV. All mutation happens on the request goroutine handling a
// dialog, so the mutex only guards against overlapping dialogs within
// one session.
type Store struct {
	mu   sync.Mutex
	kv   KV
	live map[Key]any
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, live: map[Key]any{}}
}

// Put replaces the staged slice for key. The mirror is updated before
// Put returns, so a Get on any goroutine immediately afterward sees
// exactly what was written. A KV failure degrades durability only and
// is logged, never returned: the mirror remains authoritative for the
// life of the process.
func Put[T any](ctx context.Context, s *Store, key Key, items []T) {
	staged := slices.Clone(items)

	s.mu.Lock()
	s.live[key] = staged
	s.mu.Unlock()

	b, err := json.Marshal(staged)
	if err != nil {
		logf("draft: marshal %s: %v", key.StorageKey(), err)
		return
	}
	if err := s.kv.Put(ctx, key.StorageKey(), b); err != nil {
		logf("draft: persist %s: %v", key.StorageKey(), err)
	}
}

// Get returns the last staged slice for key, or false if nothing was
// staged in this process. It never consults the KV; see Recover.
func Get[T any](s *Store, key Key) ([]T, bool) {
	s.mu.Lock()
	v, ok := s.live[key]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	items, ok := v.([]T)
	if !ok {
		return nil, false
	}
	return slices.Clone(items), true
}

// Recover loads a surviving KV entry into the mirror. It is used at
// dialog open: a hit means a prior session for the same key was closed
// without saving, and its edits are restored rather than discarded.
func Recover[T any](ctx context.Context, s *Store, key Key) ([]T, bool, error) {
	if items, ok := Get[T](s, key); ok {
		return items, true, nil
	}

	b, ok, err := s.kv.Get(ctx, key.StorageKey())
	if err != nil || !ok {
		return nil, false, err
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	s.live[key] = slices.Clone(items)
	s.mu.Unlock()
	return items, true, nil
}

// Clear removes one staged collection from the mirror and the KV.
func Clear(ctx context.Context, s *Store, key Key) {
	s.mu.Lock()
	delete(s.live, key)
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, key.StorageKey()); err != nil {
		logf("draft: clear %s: %v", key.StorageKey(), err)
	}
}

// ClearSession removes every staged collection of one dialog session.
// Called after a successful save and on cancel.
func ClearSession(ctx context.Context, s *Store, kind string, mode Mode, recordID string) {
	if recordID == "" {
		recordID = NewRecordID
	}

	s.mu.Lock()
	for key := range s.live {
		if key.Kind == kind && key.Mode == mode && key.RecordID == recordID {
			delete(s.live, key)
		}
	}
	s.mu.Unlock()

	prefix := SessionPrefix(kind, mode, recordID)
	if err := s.kv.DeleteByPrefix(ctx, prefix); err != nil {
		logf("draft: clear session %s: %v", prefix, err)
	}
}
