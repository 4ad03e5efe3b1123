package comments

import (
	"testing"

	"github.com/hanbitworks/backoffice/pkg/localid"
)

func TestNewCarriesTemporaryID(t *testing.T) {
	id := localid.NewLocal()
	c := New(id, "jihye.park")
	if c.ItemID() != id || c.Author != "jihye.park" {
		t.Fatalf("unexpected comment: %+v", c)
	}
}

func TestSetField(t *testing.T) {
	c := New(localid.NewLocal(), "a")
	c = SetField(c, "body", "first draft")
	if c.Body != "first draft" {
		t.Fatalf("body edit lost: %+v", c)
	}
	c = SetField(c, "author", "b")
	if c.Author != "b" {
		t.Fatalf("author edit lost: %+v", c)
	}
	before := c
	c = SetField(c, "created_at", "2025-01-01")
	if c != before {
		t.Fatalf("unknown field must be ignored: %+v", c)
	}
}

func TestRebind(t *testing.T) {
	c := New(localid.NewLocal(), "a")
	c = Rebind(c, "17", "42")
	if c.ID.IsLocal() {
		t.Fatalf("rebind must drop the temporary id")
	}
	if id, _ := c.ID.PersistedValue(); id != "17" || c.RecordID != "42" {
		t.Fatalf("rebind: %+v", c)
	}
}
