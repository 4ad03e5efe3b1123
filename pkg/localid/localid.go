// Package localid provides a tagged identifier for child-collection
// items: either a client-generated temporary id for an item created in
// an open dialog, or the identifier assigned by the store. The two
// forms are structurally distinct, so a temporary id can never be
// mistaken for a persisted one in a write path.
package localid

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const localPrefix = "tmp:"

// The counter seeds from the wall clock, not zero: staged drafts
// survive process restarts in the durable session KV, so a fresh id
// must stay ahead of every id recovered from an earlier process. The
// shift leaves room for 2^20 ids per millisecond.
var localCounter = newLocalCounter()

func newLocalCounter() *atomic.Uint64 {
	var c atomic.Uint64
	c.Store(uint64(time.Now().UnixMilli()) << 20)
	return &c
}

// ID identifies a child-collection item. The zero value is neither
// local nor persisted.
type ID struct {
	local     uint64
	persisted string
}

// NewLocal returns a fresh temporary id. Ids are unique within the
// process and do not repeat across restarts.
func NewLocal() ID {
	return ID{local: localCounter.Add(1)}
}

// Persisted wraps a store-assigned identifier.
func Persisted(id string) ID {
	return ID{persisted: id}
}

func (id ID) IsLocal() bool { return id.local != 0 }

func (id ID) IsZero() bool { return id.local == 0 && id.persisted == "" }

// PersistedValue returns the store-assigned identifier, or false for a
// local or zero id.
func (id ID) PersistedValue() (string, bool) {
	if id.persisted == "" {
		return "", false
	}
	return id.persisted, true
}

func (id ID) String() string {
	if id.IsLocal() {
		return localPrefix + strconv.FormatUint(id.local, 10)
	}
	return id.persisted
}

// Parse reverses String. Persisted identifiers must not carry the
// temporary prefix.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, errors.New("localid: empty id")
	}
	if rest, ok := strings.CutPrefix(s, localPrefix); ok {
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil || n == 0 {
			return ID{}, errors.New("localid: malformed temporary id")
		}
		return ID{local: n}, nil
	}
	return ID{persisted: s}, nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*id = ID{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
