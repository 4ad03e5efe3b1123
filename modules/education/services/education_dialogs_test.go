package services

import (
	"context"
	"strings"
	"testing"

	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/modules/education/infrastructure/persistence"
	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/comments"
	"github.com/hanbitworks/backoffice/pkg/dialog"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/kindcfg"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

type educationHarness struct {
	dialogs    EducationDialogs
	store      *persistence.EducationMemoryStore
	curriculum *reconcile.MemoryStore[types.CurriculumItem]
	attendees  *reconcile.MemoryStore[types.AttendeeItem]
	comments   *reconcile.MemoryStore[comments.Comment]
}

func newEducationHarness(t *testing.T) *educationHarness {
	t.Helper()
	kind, ok := kindcfg.Default().Kind(kindcfg.KindEducation)
	if !ok {
		t.Fatalf("missing education kind")
	}
	h := &educationHarness{
		store:      persistence.NewEducationMemoryStore(),
		curriculum: persistence.NewCurriculumMemoryStore(),
		attendees:  persistence.NewAttendeeMemoryStore(),
		comments:   reconcile.NewMemoryStore(comments.Rebind),
	}
	h.dialogs = NewEducationDialogs(
		kind, h.store, h.curriculum, h.attendees, h.comments,
		bizcode.NewMemoryGenerator(), draft.NewStore(draft.NewMemoryKV()),
		func(context.Context) string { return "hong.gd" },
	)
	return h
}

func TestAddDialogSavesRecordAndCollections(t *testing.T) {
	ctx := context.Background()
	h := newEducationHarness(t)

	s, err := h.dialogs.Open(ctx, draft.ModeAdd, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if code := s.Fields()["code"]; !strings.HasPrefix(code, "IT-EDU-") {
		t.Fatalf("seeded code: %q", code)
	}

	for name, value := range map[string]string{
		"name": "정보보호 기본교육", "execution_date": "2025-04-10",
		"location": "본사 2층", "education_type": "집합",
	} {
		if err := s.SetField(name, value); err != nil {
			t.Fatalf("SetField(%s): %v", name, err)
		}
	}

	cur, _ := s.Collection("curriculum")
	first := cur.Add(ctx).(types.CurriculumItem)
	cur.EditField(ctx, first.ID, "title", "오리엔테이션")
	second := cur.Add(ctx).(types.CurriculumItem)
	cur.EditField(ctx, second.ID, "title", "실습")

	res, err := s.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := h.store.GetEducation(ctx, res.RecordID)
	if err != nil {
		t.Fatalf("GetEducation: %v", err)
	}
	if rec.Name != "정보보호 기본교육" || rec.ExecutionDate != "2025-04-10" {
		t.Fatalf("saved record: %+v", rec)
	}

	items, _ := h.curriculum.ListByRecordID(ctx, res.RecordID)
	if len(items) != 2 {
		t.Fatalf("curriculum rows: %+v", items)
	}
	for _, item := range items {
		if item.EducationID != res.RecordID {
			t.Fatalf("curriculum row not rebound: %+v", item)
		}
	}
}

func TestCurriculumOrderRenumberedOnInsert(t *testing.T) {
	ctx := context.Background()
	h := newEducationHarness(t)

	s, err := h.dialogs.Open(ctx, draft.ModeAdd, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cur, _ := s.Collection("curriculum")
	a := cur.Add(ctx).(types.CurriculumItem)
	cur.EditField(ctx, a.ID, "title", "older")
	cur.Add(ctx)

	items, ok := dialog.Items[types.CurriculumItem](s, "curriculum")
	if !ok || len(items) != 2 {
		t.Fatalf("items: %v ok=%v", items, ok)
	}
	// Insert-at-head: the newest session displays first as order 1.
	if items[0].OrderNo != 1 || items[1].OrderNo != 2 {
		t.Fatalf("order numbers: %d, %d", items[0].OrderNo, items[1].OrderNo)
	}
	if items[1].Title != "older" {
		t.Fatalf("existing session must shift down: %+v", items)
	}
}

func TestEditDialogRoundTripsFields(t *testing.T) {
	ctx := context.Background()
	h := newEducationHarness(t)

	id, err := h.store.CreateEducation(ctx, types.Education{
		Code: "IT-EDU-25-007", Name: "기존 교육", ExecutionDate: "2025-01-20",
		Location: "지사", EducationType: "온라인", Instructor: "김강사",
		TeamName: "정보보안팀", Status: "completed",
	})
	if err != nil {
		t.Fatalf("CreateEducation: %v", err)
	}

	s, err := h.dialogs.Open(ctx, draft.ModeEdit, id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fields := s.Fields()
	if fields["code"] != "IT-EDU-25-007" || fields["instructor"] != "김강사" {
		t.Fatalf("loaded fields: %v", fields)
	}

	if err := s.SetField("location", "본사"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if _, err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, _ := h.store.GetEducation(ctx, id)
	if rec.Location != "본사" || rec.Name != "기존 교육" {
		t.Fatalf("updated record: %+v", rec)
	}
}

func TestNewCommentCarriesActingUser(t *testing.T) {
	ctx := context.Background()
	h := newEducationHarness(t)

	s, err := h.dialogs.Open(ctx, draft.ModeAdd, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	col, _ := s.Collection("comments")
	added := col.Add(ctx).(comments.Comment)
	if added.Author != "hong.gd" {
		t.Fatalf("author: %q", added.Author)
	}
}

func TestCurriculumMinutesCoerced(t *testing.T) {
	ctx := context.Background()
	h := newEducationHarness(t)

	s, err := h.dialogs.Open(ctx, draft.ModeAdd, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cur, _ := s.Collection("curriculum")
	item := cur.Add(ctx).(types.CurriculumItem)

	// Non-numeric input clamps to 0 at staging, so the int cast at
	// save time cannot fail and silently drop the row.
	cur.EditField(ctx, item.ID, "minutes", "ninety")
	items, _ := dialog.Items[types.CurriculumItem](s, "curriculum")
	if items[0].Minutes != "0" {
		t.Fatalf("non-numeric minutes must clamp to 0, staged %q", items[0].Minutes)
	}

	cur.EditField(ctx, item.ID, "minutes", "90")
	items, _ = dialog.Items[types.CurriculumItem](s, "curriculum")
	if items[0].Minutes != "90" {
		t.Fatalf("numeric minutes must stage as given, staged %q", items[0].Minutes)
	}

	cur.EditField(ctx, item.ID, "minutes", "")
	items, _ = dialog.Items[types.CurriculumItem](s, "curriculum")
	if items[0].Minutes != "" {
		t.Fatalf("empty minutes must stay empty, staged %q", items[0].Minutes)
	}
}
