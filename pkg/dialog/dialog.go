// Package dialog runs one record's edit dialog end to end: the scalar
// field reducer, the staged child-collection editors, and the save
// transaction that persists the parent record and reconciles every
// collection against its baseline.
//
// The engine is record-kind agnostic. Each kind contributes its typed
// collection specs and a RecordOps adapter. Draft staging, recovery,
// validation, save ordering and re-entrancy guarding are shared here,
// instead of being repeated per dialog.
package dialog

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/editor"
	"github.com/hanbitworks/backoffice/pkg/fieldrule"
	"github.com/hanbitworks/backoffice/pkg/formstate"
	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/kindcfg"
	"github.com/hanbitworks/backoffice/pkg/localid"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

// Item constrains dialog child items; see editor.Item.
type Item interface {
	comparable
	ItemID() localid.ID
}

// RecordOps is the parent record's persistence contract, expressed
// over the dialog's scalar field map. Create must return the
// store-assigned identifier: child reconciliation depends on it.
type RecordOps interface {
	Load(ctx context.Context, id string) (map[string]string, error)
	Create(ctx context.Context, fields map[string]string) (string, error)
	Update(ctx context.Context, id string, fields map[string]string) error
}

// Collection is the type-erased face of one bound child collection,
// used by the HTTP layer; typed access goes through Items.
type Collection interface {
	Name() string
	Add(ctx context.Context) any
	EditField(ctx context.Context, id localid.ID, field, value string) bool
	ToggleSelect(id localid.ID)
	SelectAll(on bool)
	DeleteSelected(ctx context.Context) int
	Items() any
	Page(n int) any
	Pages() int
	PageSize() int

	reconcile(ctx context.Context, recordID string) (reconcile.Result, error)
}

// Spec builds a bound collection at dialog open.
type Spec interface {
	CollectionName() string
	open(ctx context.Context, drafts *draft.Store, kind string, mode draft.Mode, recordID string) (Collection, error)
}

// CollectionSpec wires one typed child collection into a dialog.
type CollectionSpec[T Item] struct {
	Name         string
	Editor       editor.Config[T]
	Store        reconcile.ChildStore[T]
	ReverseAdded bool
}

func (s CollectionSpec[T]) CollectionName() string { return s.Name }

func (s CollectionSpec[T]) open(ctx context.Context, drafts *draft.Store, kind string, mode draft.Mode, recordID string) (Collection, error) {
	key := draft.Key{Kind: kind, Mode: mode, RecordID: recordID, Collection: s.Name}

	var baseline []T
	if mode == draft.ModeEdit {
		loaded, err := s.Store.ListByRecordID(ctx, recordID)
		if err != nil {
			return nil, fmt.Errorf("dialog: load %s: %w", s.Name, err)
		}
		baseline = loaded
	}

	// A surviving draft from a dialog closed without saving wins over
	// the freshly loaded baseline; the baseline stays the diff anchor.
	current := baseline
	if recovered, ok, err := draft.Recover[T](ctx, drafts, key); err != nil {
		logf("dialog: recover %s: %v", key.StorageKey(), err)
	} else if ok {
		current = recovered
	}

	return &boundCollection[T]{
		spec:   s,
		ed:     editor.New(ctx, s.Editor, drafts, key, current),
		base:   baseline,
		drafts: drafts,
		key:    key,
	}, nil
}

type boundCollection[T Item] struct {
	spec   CollectionSpec[T]
	ed     *editor.Editor[T]
	base   []T
	drafts *draft.Store
	key    draft.Key
}

func (c *boundCollection[T]) Name() string { return c.spec.Name }

func (c *boundCollection[T]) Add(ctx context.Context) any { return c.ed.Add(ctx) }

func (c *boundCollection[T]) EditField(ctx context.Context, id localid.ID, field, value string) bool {
	return c.ed.EditField(ctx, id, field, value)
}

func (c *boundCollection[T]) ToggleSelect(id localid.ID) { c.ed.ToggleSelect(id) }

func (c *boundCollection[T]) SelectAll(on bool) { c.ed.SelectAll(on) }

func (c *boundCollection[T]) DeleteSelected(ctx context.Context) int {
	return c.ed.DeleteSelected(ctx)
}

func (c *boundCollection[T]) Items() any { return c.ed.Items() }

func (c *boundCollection[T]) Page(n int) any { return c.ed.Page(n) }

func (c *boundCollection[T]) Pages() int { return c.ed.Pages() }

func (c *boundCollection[T]) PageSize() int { return c.spec.Editor.PageSize }

func (c *boundCollection[T]) reconcile(ctx context.Context, recordID string) (reconcile.Result, error) {
	d := reconcile.Compute(c.ed.Items(), c.base)
	runner := reconcile.Runner[T]{
		Collection:   c.spec.Name,
		Store:        c.spec.Store,
		ReverseAdded: c.spec.ReverseAdded,
	}
	return runner.Run(ctx, recordID, d)
}

// Config assembles a dialog for one record kind.
type Config struct {
	Kind        kindcfg.Kind
	Records     RecordOps
	Codes       bizcode.Generator
	Drafts      *draft.Store
	Collections []Spec
	Now         func() time.Time
}

var (
	ErrSaveInFlight = httperr.NewConflict("save already in progress")
	ErrDialogClosed = httperr.NewConflict("dialog is closed")
)

var logf = log.Printf

// Session is one open dialog. Field and collection mutations are
// request-driven and serialized per session by the mutex; the save
// transaction runs at most once.
type Session struct {
	cfg         Config
	mode        draft.Mode
	recordID    string
	state       formstate.State
	collections []Collection

	mu     sync.Mutex
	saving bool
	closed bool
}

// Open builds a dialog session. Edit mode loads the record and child
// baselines; add mode generates a business code and today's date. In
// both modes a surviving draft for the same key is recovered.
func Open(ctx context.Context, cfg Config, mode draft.Mode, recordID string) (*Session, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Session{cfg: cfg, mode: mode}
	switch mode {
	case draft.ModeEdit:
		if recordID == "" {
			return nil, httperr.NewBadRequest("record id required for edit")
		}
		fields, err := cfg.Records.Load(ctx, recordID)
		if err != nil {
			return nil, err
		}
		state, err := formstate.Reduce(formstate.State{}, formstate.InitForEdit{Fields: fields})
		if err != nil {
			return nil, err
		}
		s.state = state
		s.recordID = recordID

	case draft.ModeAdd:
		code := bizcode.NextOrFallback(ctx, cfg.Codes, cfg.Kind.CodePrefix, cfg.Now)
		state, err := formstate.Reduce(formstate.State{}, formstate.InitForAdd{
			Code:      code,
			Date:      cfg.Now().Format("2006-01-02"),
			CodeField: cfg.Kind.CodeField,
			DateField: cfg.Kind.DateField,
			Defaults:  cfg.Kind.Defaults(),
		})
		if err != nil {
			return nil, err
		}
		s.state = state
		s.recordID = draft.NewRecordID

	default:
		return nil, httperr.NewBadRequest("unknown dialog mode")
	}

	for _, spec := range cfg.Collections {
		c, err := spec.open(ctx, cfg.Drafts, cfg.Kind.Key, mode, s.recordID)
		if err != nil {
			return nil, err
		}
		s.collections = append(s.collections, c)
	}
	return s, nil
}

func (s *Session) Mode() draft.Mode { return s.mode }

// RecordID returns the persisted record id, or the add-mode
// placeholder before the first save.
func (s *Session) RecordID() string { return s.recordID }

// Fields returns a copy of the current scalar fields.
func (s *Session) Fields() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.state.Fields))
	for k, v := range s.state.Fields {
		out[k] = v
	}
	return out
}

// SetField applies one scalar field edit.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrDialogClosed
	}
	state, err := formstate.Reduce(s.state, formstate.SetField{Name: name, Value: value})
	if err != nil {
		return err
	}
	s.state = state
	return nil
}

// Collection returns the bound collection by name.
func (s *Session) Collection(name string) (Collection, bool) {
	for _, c := range s.collections {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Collections returns the bound collections in registration order.
func (s *Session) Collections() []Collection {
	out := make([]Collection, len(s.collections))
	copy(out, s.collections)
	return out
}

// Items returns a collection's staged items with their concrete type.
func Items[T Item](s *Session, name string) ([]T, bool) {
	c, ok := s.Collection(name)
	if !ok {
		return nil, false
	}
	items, ok := c.Items().([]T)
	return items, ok
}

// SaveResult reports a completed save. Warnings carries the
// non-blocking failures tolerated by the partial-failure policy:
// individual child-item writes, and the parent update in edit mode's
// degraded path.
type SaveResult struct {
	RecordID string
	Warnings []error
}

// Save runs the save transaction: validate, persist the parent, obtain
// the authoritative id, reconcile every child collection with it, then
// clear the session's drafts and close. A validation failure makes no
// remote call and leaves the dialog open. Re-entrant saves are
// rejected while one is in flight.
func (s *Session) Save(ctx context.Context) (SaveResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return SaveResult{}, ErrDialogClosed
	}
	if s.saving {
		s.mu.Unlock()
		return SaveResult{}, ErrSaveInFlight
	}
	s.saving = true
	fields := s.state.Fields
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}

	ok, err := fieldrule.Evaluate(s.cfg.Kind.RequiredRule, fields)
	if err != nil {
		release()
		return SaveResult{}, fmt.Errorf("dialog: required rule: %w", err)
	}
	if !ok {
		release()
		return SaveResult{}, httperr.NewValidation(s.cfg.Kind.RequiredMessage)
	}

	var warnings []error
	recordID := s.recordID
	switch s.mode {
	case draft.ModeAdd:
		// No identifier exists yet: a create failure is blocking.
		id, err := s.cfg.Records.Create(ctx, fields)
		if err != nil {
			release()
			return SaveResult{}, err
		}
		recordID = id
	case draft.ModeEdit:
		// The identifier already exists, so a failed field update
		// degrades to child reconciliation rather than stranding the
		// staged collections.
		if err := s.cfg.Records.Update(ctx, recordID, fields); err != nil {
			logf("dialog: update %s %s: %v", s.cfg.Kind.Key, recordID, err)
			warnings = append(warnings, err)
		}
	}

	for _, c := range s.collections {
		res, err := c.reconcile(ctx, recordID)
		if err != nil {
			release()
			return SaveResult{}, err
		}
		warnings = append(warnings, res.ChildErrors...)
	}

	draft.ClearSession(ctx, s.cfg.Drafts, s.cfg.Kind.Key, s.mode, s.recordID)

	s.mu.Lock()
	s.saving = false
	s.closed = true
	s.state, _ = formstate.Reduce(s.state, formstate.Reset{})
	s.mu.Unlock()

	return SaveResult{RecordID: recordID, Warnings: warnings}, nil
}

// Cancel discards the session's drafts and closes the dialog.
func (s *Session) Cancel(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.state, _ = formstate.Reduce(s.state, formstate.Reset{})
	s.mu.Unlock()

	draft.ClearSession(ctx, s.cfg.Drafts, s.cfg.Kind.Key, s.mode, s.recordID)
}

// Closed reports whether the dialog has been saved or cancelled.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
