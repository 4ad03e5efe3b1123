// Package editor implements the in-dialog grid editor for one staged
// child collection: add, inline field edits, selection, batch delete
// and display paging. It never talks to the remote store; every
// mutation is written through to the draft store so the save-time
// reconciler always reads current state.
package editor

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/localid"
)

// Item is the constraint for editable child items. Comparability gives
// the reconciler field-level change detection for free.
type Item interface {
	comparable
	ItemID() localid.ID
}

// Config describes how one collection type is edited.
type Config[T Item] struct {
	// PageSize splits the collection for display; 5 or 9 depending on the
	// collection. Mutation always addresses the full slice.
	PageSize int

	// Ordered collections carry an explicit order field that is
	// renumbered from 1 after adds and deletes.
	Ordered bool

	// NewItem builds a blank item carrying the given temporary id.
	NewItem func(id localid.ID) T

	// SetField applies one field edit. Implementations coerce types
	// (non-numeric input to a numeric field becomes 0) and ignore
	// unknown fields; they never fail.
	SetField func(item T, field, value string) T

	// SetOrder is required when Ordered is set.
	SetOrder func(item T, order int) T
}

// ClampInt coerces input for an integer field: empty stays empty
// (field not provided), anything unparseable clamps to "0". SetField
// implementations use this so a staged value always casts cleanly at
// save time.
func ClampInt(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if _, err := strconv.Atoi(value); err != nil {
		return "0"
	}
	return value
}

// ClampDecimal is ClampInt for decimal fields such as amounts. Valid
// input keeps its original form.
func ClampDecimal(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return "0"
	}
	return value
}

// Editor edits one staged collection. All operations are synchronous
// and total; there are no error states at this layer.
type Editor[T Item] struct {
	cfg      Config[T]
	store    *draft.Store
	key      draft.Key
	items    []T
	selected map[localid.ID]bool
}

// New seeds an editor with the collection's current staged state and
// immediately stages it, so the draft store holds an entry for the key
// from the moment the dialog opens.
func New[T Item](ctx context.Context, cfg Config[T], store *draft.Store, key draft.Key, initial []T) *Editor[T] {
	e := &Editor[T]{
		cfg:      cfg,
		store:    store,
		key:      key,
		items:    slices.Clone(initial),
		selected: map[localid.ID]bool{},
	}
	e.stage(ctx)
	return e
}

func (e *Editor[T]) stage(ctx context.Context) {
	draft.Put(ctx, e.store, e.key, e.items)
}

// Add prepends a new item under a fresh temporary id. Ordered
// collections shift every existing item down one slot so the new item
// holds order 1.
func (e *Editor[T]) Add(ctx context.Context) T {
	item := e.cfg.NewItem(localid.NewLocal())
	e.items = append([]T{item}, e.items...)
	e.renumber()
	if e.cfg.Ordered {
		item = e.items[0]
	}
	e.stage(ctx)
	return item
}

// EditField applies one field edit by item id. Editing an id not in
// the collection is a no-op and reports false.
func (e *Editor[T]) EditField(ctx context.Context, id localid.ID, field, value string) bool {
	for i, item := range e.items {
		if item.ItemID() == id {
			e.items[i] = e.cfg.SetField(item, field, value)
			e.stage(ctx)
			return true
		}
	}
	return false
}

func (e *Editor[T]) ToggleSelect(id localid.ID) {
	if e.selected[id] {
		delete(e.selected, id)
		return
	}
	for _, item := range e.items {
		if item.ItemID() == id {
			e.selected[id] = true
			return
		}
	}
}

func (e *Editor[T]) SelectAll(on bool) {
	if !on {
		clear(e.selected)
		return
	}
	for _, item := range e.items {
		e.selected[item.ItemID()] = true
	}
}

// DeleteSelected removes every selected item, clears the selection and
// renumbers ordered collections. Returns the number removed.
func (e *Editor[T]) DeleteSelected(ctx context.Context) int {
	if len(e.selected) == 0 {
		return 0
	}
	kept := e.items[:0]
	removed := 0
	for _, item := range e.items {
		if e.selected[item.ItemID()] {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	e.items = kept
	clear(e.selected)
	if removed > 0 {
		e.renumber()
		e.stage(ctx)
	}
	return removed
}

func (e *Editor[T]) renumber() {
	if !e.cfg.Ordered {
		return
	}
	for i, item := range e.items {
		e.items[i] = e.cfg.SetOrder(item, i+1)
	}
}

// Items returns a copy of the full staged collection in display order.
func (e *Editor[T]) Items() []T {
	return slices.Clone(e.items)
}

func (e *Editor[T]) Len() int { return len(e.items) }

// Selected returns the ids currently marked for deletion.
func (e *Editor[T]) Selected() []localid.ID {
	ids := make([]localid.ID, 0, len(e.selected))
	for _, item := range e.items {
		if e.selected[item.ItemID()] {
			ids = append(ids, item.ItemID())
		}
	}
	return ids
}

// Page returns the 1-based display page. Out-of-range pages are empty.
func (e *Editor[T]) Page(n int) []T {
	size := e.cfg.PageSize
	if size <= 0 || n < 1 {
		return nil
	}
	start := (n - 1) * size
	if start >= len(e.items) {
		return nil
	}
	return slices.Clone(e.items[start:min(start+size, len(e.items))])
}

// Pages reports the number of display pages.
func (e *Editor[T]) Pages() int {
	if e.cfg.PageSize <= 0 {
		return 1
	}
	if len(e.items) == 0 {
		return 1
	}
	return (len(e.items) + e.cfg.PageSize - 1) / e.cfg.PageSize
}
