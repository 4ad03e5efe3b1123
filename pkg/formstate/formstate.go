// Package formstate is the reducer over a record dialog's scalar
// fields. Actions form a closed tagged union; anything outside the
// transitions below is rejected rather than silently absorbed.
package formstate

import "errors"

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseEditing
)

var (
	ErrAlreadyInitialized = errors.New("formstate: dialog already initialized")
	ErrNotEditing         = errors.New("formstate: dialog not initialized")
)

// State is immutable from the caller's point of view: Reduce returns a
// new State and never mutates its input's field map.
type State struct {
	Phase  Phase
	Fields map[string]string
}

func (s State) Field(name string) string {
	return s.Fields[name]
}

// Action is the closed set of dialog field transitions.
type Action interface{ isAction() }

// InitForEdit seeds the dialog with a persisted record's fields.
type InitForEdit struct {
	Fields map[string]string
}

// InitForAdd seeds an add-mode dialog with defaults, the generated
// business code and today's date. CodeField and DateField name the
// scalar fields receiving the two values; they default to "code" and
// "date" because the field names differ by record kind.
type InitForAdd struct {
	Code      string
	Date      string
	CodeField string
	DateField string
	Defaults  map[string]string
}

// SetField replaces one scalar field.
type SetField struct {
	Name  string
	Value string
}

// Reset returns the dialog to uninitialized, dropping all fields.
type Reset struct{}

func (InitForEdit) isAction() {}
func (InitForAdd) isAction()  {}
func (SetField) isAction()    {}
func (Reset) isAction()       {}

// Reduce applies one action. Init actions are only valid on an
// uninitialized state; SetField only after initialization.
func Reduce(s State, a Action) (State, error) {
	switch act := a.(type) {
	case InitForEdit:
		if s.Phase != PhaseUninitialized {
			return s, ErrAlreadyInitialized
		}
		return State{Phase: PhaseEditing, Fields: cloneFields(act.Fields)}, nil

	case InitForAdd:
		if s.Phase != PhaseUninitialized {
			return s, ErrAlreadyInitialized
		}
		fields := cloneFields(act.Defaults)
		codeField, dateField := act.CodeField, act.DateField
		if codeField == "" {
			codeField = "code"
		}
		if dateField == "" {
			dateField = "date"
		}
		fields[codeField] = act.Code
		fields[dateField] = act.Date
		return State{Phase: PhaseEditing, Fields: fields}, nil

	case SetField:
		if s.Phase != PhaseEditing {
			return s, ErrNotEditing
		}
		fields := cloneFields(s.Fields)
		fields[act.Name] = act.Value
		return State{Phase: PhaseEditing, Fields: fields}, nil

	case Reset:
		return State{}, nil

	default:
		return s, errors.New("formstate: unknown action")
	}
}

func cloneFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
