package services

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/education/domain/ports"
	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/comments"
	"github.com/hanbitworks/backoffice/pkg/dialog"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/editor"
	"github.com/hanbitworks/backoffice/pkg/kindcfg"
	"github.com/hanbitworks/backoffice/pkg/localid"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

// EducationDialogs opens edit dialogs for education records: the
// scalar form plus the curriculum, attendee and comment collections.
type EducationDialogs struct {
	kind       kindcfg.Kind
	store      ports.EducationStore
	curriculum ports.CurriculumStore
	attendees  ports.AttendeeStore
	comments   reconcile.ChildStore[comments.Comment]
	codes      bizcode.Generator
	drafts     *draft.Store
	author     func(ctx context.Context) string
}

func NewEducationDialogs(
	kind kindcfg.Kind,
	store ports.EducationStore,
	curriculum ports.CurriculumStore,
	attendees ports.AttendeeStore,
	commentStore reconcile.ChildStore[comments.Comment],
	codes bizcode.Generator,
	drafts *draft.Store,
	author func(ctx context.Context) string,
) EducationDialogs {
	return EducationDialogs{
		kind:       kind,
		store:      store,
		curriculum: curriculum,
		attendees:  attendees,
		comments:   commentStore,
		codes:      codes,
		drafts:     drafts,
		author:     author,
	}
}

func (s EducationDialogs) Open(ctx context.Context, mode draft.Mode, recordID string) (*dialog.Session, error) {
	author := "system"
	if s.author != nil {
		author = s.author(ctx)
	}

	cfg := dialog.Config{
		Kind:    s.kind,
		Records: educationRecordOps{store: s.store},
		Codes:   s.codes,
		Drafts:  s.drafts,
		Collections: []dialog.Spec{
			dialog.CollectionSpec[types.CurriculumItem]{
				Name:   "curriculum",
				Editor: curriculumEditor(s.kind),
				Store:  s.curriculum,
			},
			dialog.CollectionSpec[types.AttendeeItem]{
				Name:   "attendees",
				Editor: attendeeEditor(s.kind),
				Store:  s.attendees,
			},
			commentsSpec(s.kind, s.comments, author),
		},
	}
	return dialog.Open(ctx, cfg, mode, recordID)
}

func commentsSpec(kind kindcfg.Kind, store reconcile.ChildStore[comments.Comment], author string) dialog.CollectionSpec[comments.Comment] {
	col, _ := kind.Collection("comments")
	return dialog.CollectionSpec[comments.Comment]{
		Name:         col.Name,
		Editor:       comments.EditorConfig(col.PageSize, author),
		Store:        store,
		ReverseAdded: col.ReverseInsert,
	}
}

func curriculumEditor(kind kindcfg.Kind) editor.Config[types.CurriculumItem] {
	col, _ := kind.Collection("curriculum")
	return editor.Config[types.CurriculumItem]{
		PageSize: col.PageSize,
		Ordered:  col.Ordered,
		NewItem:  func(id localid.ID) types.CurriculumItem { return types.CurriculumItem{ID: id} },
		SetOrder: func(i types.CurriculumItem, order int) types.CurriculumItem {
			i.OrderNo = order
			return i
		},
		SetField: func(i types.CurriculumItem, field, value string) types.CurriculumItem {
			switch field {
			case "title":
				i.Title = value
			case "instructor":
				i.Instructor = value
			case "minutes":
				i.Minutes = editor.ClampInt(value)
			}
			return i
		},
	}
}

func attendeeEditor(kind kindcfg.Kind) editor.Config[types.AttendeeItem] {
	col, _ := kind.Collection("attendees")
	return editor.Config[types.AttendeeItem]{
		PageSize: col.PageSize,
		NewItem:  func(id localid.ID) types.AttendeeItem { return types.AttendeeItem{ID: id} },
		SetField: func(i types.AttendeeItem, field, value string) types.AttendeeItem {
			switch field {
			case "name":
				i.Name = value
			case "department":
				i.Department = value
			case "completed":
				i.Completed = value
			}
			return i
		},
	}
}

// educationRecordOps adapts the typed store to the dialog's field-map
// contract.
type educationRecordOps struct {
	store ports.EducationStore
}

func (o educationRecordOps) Load(ctx context.Context, id string) (map[string]string, error) {
	e, err := o.store.GetEducation(ctx, id)
	if err != nil {
		return nil, err
	}
	return educationFields(e), nil
}

func (o educationRecordOps) Create(ctx context.Context, fields map[string]string) (string, error) {
	return o.store.CreateEducation(ctx, educationFromFields(fields))
}

func (o educationRecordOps) Update(ctx context.Context, id string, fields map[string]string) error {
	return o.store.UpdateEducation(ctx, id, educationFromFields(fields))
}

func educationFields(e types.Education) map[string]string {
	return map[string]string{
		"code":           e.Code,
		"name":           e.Name,
		"execution_date": e.ExecutionDate,
		"location":       e.Location,
		"education_type": e.EducationType,
		"instructor":     e.Instructor,
		"team_name":      e.TeamName,
		"status":         e.Status,
	}
}

func educationFromFields(fields map[string]string) types.Education {
	return types.Education{
		Code:          fields["code"],
		Name:          fields["name"],
		ExecutionDate: fields["execution_date"],
		Location:      fields["location"],
		EducationType: fields["education_type"],
		Instructor:    fields["instructor"],
		TeamName:      fields["team_name"],
		Status:        fields["status"],
	}
}
