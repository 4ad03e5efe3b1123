// Package comments is the free-text comment thread attached to every
// record kind. The item shape and editing rules are identical across
// dialogs, so the type and its store live here once; each kind brings
// only its own table.
package comments

import (
	"github.com/hanbitworks/backoffice/pkg/editor"
	"github.com/hanbitworks/backoffice/pkg/localid"
)

// Comment is one thread entry. Display order is newest first; the
// store's insertion order is the persisted ordering, which is why a
// save submits added comments oldest-first.
type Comment struct {
	ID        localid.ID `json:"comment_id"`
	RecordID  string     `json:"record_id"`
	Author    string     `json:"author"`
	Body      string     `json:"body"`
	CreatedAt string     `json:"created_at"`
}

func (c Comment) ItemID() localid.ID { return c.ID }

// New returns a blank staged comment under a temporary id.
func New(id localid.ID, author string) Comment {
	return Comment{ID: id, Author: author}
}

// SetField applies an inline edit. Unknown fields are ignored.
func SetField(c Comment, field, value string) Comment {
	switch field {
	case "body":
		c.Body = value
	case "author":
		c.Author = value
	}
	return c
}

// EditorConfig is the staged-editor configuration shared by every
// kind's comment thread. New comments are stamped with the acting
// user so the thread reads correctly before the save round-trips.
func EditorConfig(pageSize int, author string) editor.Config[Comment] {
	return editor.Config[Comment]{
		PageSize: pageSize,
		NewItem:  func(id localid.ID) Comment { return New(id, author) },
		SetField: SetField,
	}
}

// Rebind stamps store-assigned identity onto a comment; used by the
// in-memory store to mirror what the SQL RETURNING clause produces.
func Rebind(c Comment, id string, recordID string) Comment {
	c.ID = localid.Persisted(id)
	c.RecordID = recordID
	return c
}
