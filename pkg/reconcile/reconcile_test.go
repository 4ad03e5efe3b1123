package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/hanbitworks/backoffice/pkg/localid"
)

type comment struct {
	ID       localid.ID `json:"comment_id"`
	RecordID string     `json:"record_id"`
	Body     string     `json:"body"`
}

func (c comment) ItemID() localid.ID { return c.ID }

type childStoreStub struct {
	insertManyFn func(ctx context.Context, recordID string, items []comment) error
	updateOneFn  func(ctx context.Context, id string, item comment) error
	deleteOneFn  func(ctx context.Context, id string) error
	listFn       func(ctx context.Context, recordID string) ([]comment, error)
}

func (s childStoreStub) InsertMany(ctx context.Context, recordID string, items []comment) error {
	if s.insertManyFn == nil {
		return errors.New("InsertMany not mocked")
	}
	return s.insertManyFn(ctx, recordID, items)
}

func (s childStoreStub) UpdateOne(ctx context.Context, id string, item comment) error {
	if s.updateOneFn == nil {
		return errors.New("UpdateOne not mocked")
	}
	return s.updateOneFn(ctx, id, item)
}

func (s childStoreStub) DeleteOne(ctx context.Context, id string) error {
	if s.deleteOneFn == nil {
		return errors.New("DeleteOne not mocked")
	}
	return s.deleteOneFn(ctx, id)
}

func (s childStoreStub) ListByRecordID(ctx context.Context, recordID string) ([]comment, error) {
	if s.listFn == nil {
		return nil, errors.New("ListByRecordID not mocked")
	}
	return s.listFn(ctx, recordID)
}

func withLogf(t *testing.T, fn func(string, ...any)) {
	t.Helper()
	orig := logf
	logf = fn
	t.Cleanup(func() { logf = orig })
}

func TestComputeClassifiesChanges(t *testing.T) {
	added := comment{ID: localid.NewLocal(), Body: "c"}
	baseline := []comment{
		{ID: localid.Persisted("5"), Body: "a"},
		{ID: localid.Persisted("6"), Body: "b"},
	}
	current := []comment{
		added,
		{ID: localid.Persisted("5"), Body: "a-edited"},
	}

	d := Compute(current, baseline)
	if len(d.Added) != 1 || d.Added[0] != added {
		t.Fatalf("added: %+v", d.Added)
	}
	if len(d.Modified) != 1 || d.Modified[0].Body != "a-edited" {
		t.Fatalf("modified: %+v", d.Modified)
	}
	if len(d.Deleted) != 1 || d.Deleted[0] != localid.Persisted("6") {
		t.Fatalf("deleted: %+v", d.Deleted)
	}
}

func TestComputeAgainstSelfIsEmpty(t *testing.T) {
	current := []comment{
		{ID: localid.Persisted("1"), Body: "a"},
		{ID: localid.Persisted("2"), Body: "b"},
	}
	d := Compute(current, current)
	if !d.Empty() {
		t.Fatalf("expected empty diff, got %+v", d)
	}
}

func TestComputeUnchangedItemNotModified(t *testing.T) {
	shared := comment{ID: localid.Persisted("9"), Body: "same"}
	d := Compute([]comment{shared}, []comment{shared})
	if len(d.Modified) != 0 {
		t.Fatalf("identical item must not be modified: %+v", d.Modified)
	}
}

func TestRunIssuesMinimalWrites(t *testing.T) {
	var inserted []comment
	var insertedRecord string
	var updated, deleted []string

	store := childStoreStub{
		insertManyFn: func(_ context.Context, recordID string, items []comment) error {
			insertedRecord = recordID
			inserted = append(inserted, items...)
			return nil
		},
		updateOneFn: func(_ context.Context, id string, _ comment) error {
			updated = append(updated, id)
			return nil
		},
		deleteOneFn: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}

	d := Diff[comment]{
		Added:    []comment{{ID: localid.NewLocal(), Body: "c"}},
		Modified: []comment{{ID: localid.Persisted("5"), Body: "a-edited"}},
		Deleted:  []localid.ID{localid.Persisted("6")},
	}

	res, err := Runner[comment]{Collection: "comments", Store: store}.Run(context.Background(), "42", d)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Inserted != 1 || res.Updated != 1 || res.Deleted != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.ChildErrors) != 0 {
		t.Fatalf("unexpected child errors: %v", res.ChildErrors)
	}
	if insertedRecord != "42" || len(inserted) != 1 {
		t.Fatalf("insert must carry the parent id, got record=%q items=%v", insertedRecord, inserted)
	}
	if len(updated) != 1 || updated[0] != "5" {
		t.Fatalf("updates: %v", updated)
	}
	if len(deleted) != 1 || deleted[0] != "6" {
		t.Fatalf("deletes: %v", deleted)
	}
}

func TestRunEmptyDiffIssuesNoWrites(t *testing.T) {
	// Every stub function is nil, so any store call fails the test via
	// the "not mocked" error surfacing in ChildErrors.
	res, err := Runner[comment]{Collection: "comments", Store: childStoreStub{}}.Run(context.Background(), "42", Diff[comment]{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Inserted+res.Updated+res.Deleted != 0 || len(res.ChildErrors) != 0 {
		t.Fatalf("expected zero writes, got %+v", res)
	}
}

func TestRunReversesAddedWhenConfigured(t *testing.T) {
	var got []string
	store := childStoreStub{
		insertManyFn: func(_ context.Context, _ string, items []comment) error {
			for _, c := range items {
				got = append(got, c.Body)
			}
			return nil
		},
	}

	d := Diff[comment]{Added: []comment{
		{ID: localid.NewLocal(), Body: "newest"},
		{ID: localid.NewLocal(), Body: "middle"},
		{ID: localid.NewLocal(), Body: "oldest"},
	}}

	if _, err := (Runner[comment]{Collection: "comments", Store: store, ReverseAdded: true}).Run(context.Background(), "42", d); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"oldest", "middle", "newest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("submission order %v, want %v", got, want)
		}
	}
}

func TestRunRefusesLocalParentID(t *testing.T) {
	runner := Runner[comment]{Collection: "comments", Store: childStoreStub{}}
	for _, id := range []string{"", "tmp:7"} {
		if _, err := runner.Run(context.Background(), id, Diff[comment]{}); err == nil {
			t.Fatalf("expected refusal for parent id %q", id)
		}
	}
}

func TestRunContinuesPastChildFailures(t *testing.T) {
	var logged int
	withLogf(t, func(string, ...any) { logged++ })

	var deleted, updated []string
	store := childStoreStub{
		deleteOneFn: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			if id == "6" {
				return errors.New("row locked")
			}
			return nil
		},
		updateOneFn: func(_ context.Context, id string, _ comment) error {
			updated = append(updated, id)
			return nil
		},
	}

	d := Diff[comment]{
		Modified: []comment{{ID: localid.Persisted("5"), Body: "x"}},
		Deleted:  []localid.ID{localid.Persisted("6"), localid.Persisted("7")},
	}

	res, err := Runner[comment]{Collection: "comments", Store: store}.Run(context.Background(), "42", d)
	if err != nil {
		t.Fatalf("child failure must not abort the run: %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("expected both deletes attempted, got %v", deleted)
	}
	if len(updated) != 1 {
		t.Fatalf("expected update after failed delete, got %v", updated)
	}
	if res.Deleted != 1 || res.Updated != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.ChildErrors) != 1 || logged != 1 {
		t.Fatalf("expected one logged child error, got %v (logged %d)", res.ChildErrors, logged)
	}
}

func rebindComment(c comment, id string, recordID string) comment {
	c.ID = localid.Persisted(id)
	c.RecordID = recordID
	return c
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(rebindComment)
	ctx := context.Background()

	staged := []comment{
		{ID: localid.NewLocal(), Body: "a"},
		{ID: localid.NewLocal(), Body: "b"},
	}
	if err := store.InsertMany(ctx, "42", staged); err != nil {
		t.Fatalf("InsertMany: %v", err)
	}

	got, err := store.ListByRecordID(ctx, "42")
	if err != nil {
		t.Fatalf("ListByRecordID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for i, c := range got {
		if c.ID.IsLocal() {
			t.Fatalf("row %d kept a temporary id: %v", i, c.ID)
		}
		if c.RecordID != "42" {
			t.Fatalf("row %d lost the parent id: %+v", i, c)
		}
	}
	if got[0].Body != "a" || got[1].Body != "b" {
		t.Fatalf("insertion order not preserved: %+v", got)
	}
}

func TestOrderPreservationAfterReconcileAndReload(t *testing.T) {
	// Staged display order [A, B, C], newest first. The store orders by
	// insertion, so reverse submission reproduces [A, B, C] on reload
	// when read newest-first, meaning insertion order is [C, B, A].
	store := NewMemoryStore(rebindComment)
	runner := Runner[comment]{Collection: "comments", Store: store, ReverseAdded: true}

	d := Diff[comment]{Added: []comment{
		{ID: localid.NewLocal(), Body: "A"},
		{ID: localid.NewLocal(), Body: "B"},
		{ID: localid.NewLocal(), Body: "C"},
	}}
	if _, err := runner.Run(context.Background(), "7", d); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.ListByRecordID(context.Background(), "7")
	if got[0].Body != "C" || got[1].Body != "B" || got[2].Body != "A" {
		t.Fatalf("insertion order %v, want C,B,A", got)
	}
}

func TestMemoryStoreUpdateAndDelete(t *testing.T) {
	store := NewMemoryStore(rebindComment)
	ctx := context.Background()

	_ = store.InsertMany(ctx, "42", []comment{{ID: localid.NewLocal(), Body: "a"}})
	rows, _ := store.ListByRecordID(ctx, "42")
	id, _ := rows[0].ID.PersistedValue()

	if err := store.UpdateOne(ctx, id, comment{ID: rows[0].ID, Body: "a-edited"}); err != nil {
		t.Fatalf("UpdateOne: %v", err)
	}
	rows, _ = store.ListByRecordID(ctx, "42")
	if rows[0].Body != "a-edited" {
		t.Fatalf("update not applied: %+v", rows[0])
	}

	if err := store.DeleteOne(ctx, id); err != nil {
		t.Fatalf("DeleteOne: %v", err)
	}
	if store.Count("42") != 0 {
		t.Fatalf("expected empty store")
	}
	if err := store.DeleteOne(ctx, id); err == nil {
		t.Fatalf("expected not-found for second delete")
	}
}
