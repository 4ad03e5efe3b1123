// Package reconcile computes the difference between a staged child
// collection and its last-known persisted baseline, and applies it to
// the remote store with the minimal set of writes.
package reconcile

import (
	"context"
	"fmt"
	"log"

	"github.com/hanbitworks/backoffice/pkg/localid"
)

// Keyed constrains reconcilable child items. Field comparison of
// persisted pairs relies on the items being comparable.
type Keyed interface {
	comparable
	ItemID() localid.ID
}

// Diff is the minimal write set bringing the store in line with the
// staged collection.
type Diff[T Keyed] struct {
	// Added holds items under temporary ids, in display order.
	Added []T
	// Modified holds staged items whose persisted counterpart differs.
	Modified []T
	// Deleted holds persisted ids present in the baseline but absent
	// from the staged collection.
	Deleted []localid.ID
}

func (d Diff[T]) Empty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Deleted) == 0
}

// Compute diffs the staged collection against the baseline loaded at
// dialog-open time. Computing a collection against itself yields an
// empty diff.
func Compute[T Keyed](current, baseline []T) Diff[T] {
	base := make(map[localid.ID]T, len(baseline))
	for _, item := range baseline {
		if !item.ItemID().IsLocal() {
			base[item.ItemID()] = item
		}
	}

	var d Diff[T]
	seen := make(map[localid.ID]bool, len(current))
	for _, item := range current {
		id := item.ItemID()
		if id.IsLocal() {
			d.Added = append(d.Added, item)
			continue
		}
		seen[id] = true
		if prev, ok := base[id]; ok && prev != item {
			d.Modified = append(d.Modified, item)
		}
	}
	for _, item := range baseline {
		id := item.ItemID()
		if !id.IsLocal() && !seen[id] {
			d.Deleted = append(d.Deleted, id)
		}
	}
	return d
}

// ChildStore is the persistence contract for one child collection.
// InsertMany stamps the parent record id on every inserted row and
// assigns fresh persisted ids; temporary ids on the staged items are
// discarded, never written.
type ChildStore[T any] interface {
	InsertMany(ctx context.Context, recordID string, items []T) error
	UpdateOne(ctx context.Context, id string, item T) error
	DeleteOne(ctx context.Context, id string) error
	ListByRecordID(ctx context.Context, recordID string) ([]T, error)
}

// Result reports what a run applied. ChildErrors carries the
// non-blocking per-item failures: the parent record is already durable
// when the runner executes, so a failed child write is logged and the
// remaining writes continue.
type Result struct {
	Inserted    int
	Updated     int
	Deleted     int
	ChildErrors []error
}

var logf = log.Printf

// Runner applies diffs for one collection.
type Runner[T Keyed] struct {
	Collection string
	Store      ChildStore[T]

	// ReverseAdded submits added items in reverse display order, for
	// collections whose persisted order is the store's own insertion
	// order: replaying oldest-first reproduces the staged order on
	// reload.
	ReverseAdded bool
}

// Run executes the diff against the store, deletes first, then
// updates, then inserts, sequentially. The parent record id must be a
// store-assigned identifier: a temporary or empty id is a programming
// error upstream and is refused before any write.
func (r Runner[T]) Run(ctx context.Context, recordID string, d Diff[T]) (Result, error) {
	if err := checkRecordID(recordID); err != nil {
		return Result{}, err
	}

	var res Result
	for _, id := range d.Deleted {
		pid, ok := id.PersistedValue()
		if !ok {
			continue
		}
		if err := r.Store.DeleteOne(ctx, pid); err != nil {
			r.noteFailure(&res, fmt.Errorf("%s: delete %s: %w", r.Collection, pid, err))
			continue
		}
		res.Deleted++
	}

	for _, item := range d.Modified {
		pid, ok := item.ItemID().PersistedValue()
		if !ok {
			continue
		}
		if err := r.Store.UpdateOne(ctx, pid, item); err != nil {
			r.noteFailure(&res, fmt.Errorf("%s: update %s: %w", r.Collection, pid, err))
			continue
		}
		res.Updated++
	}

	if len(d.Added) > 0 {
		added := d.Added
		if r.ReverseAdded {
			added = make([]T, len(d.Added))
			for i, item := range d.Added {
				added[len(added)-1-i] = item
			}
		}
		if err := r.Store.InsertMany(ctx, recordID, added); err != nil {
			r.noteFailure(&res, fmt.Errorf("%s: insert %d items: %w", r.Collection, len(added), err))
		} else {
			res.Inserted = len(added)
		}
	}

	return res, nil
}

func (r Runner[T]) noteFailure(res *Result, err error) {
	logf("reconcile: %v", err)
	res.ChildErrors = append(res.ChildErrors, err)
}

func checkRecordID(recordID string) error {
	if recordID == "" {
		return fmt.Errorf("reconcile: missing parent record id")
	}
	if id, err := localid.Parse(recordID); err != nil || id.IsLocal() {
		return fmt.Errorf("reconcile: parent record id %q is not a persisted id", recordID)
	}
	return nil
}
