package services

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/seceducation/domain/ports"
	"github.com/hanbitworks/backoffice/modules/seceducation/domain/types"
	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/comments"
	"github.com/hanbitworks/backoffice/pkg/dialog"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/editor"
	"github.com/hanbitworks/backoffice/pkg/kindcfg"
	"github.com/hanbitworks/backoffice/pkg/localid"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

// SecEducationDialogs opens edit dialogs for security education
// records: the scalar form plus the attendee and comment collections.
type SecEducationDialogs struct {
	kind      kindcfg.Kind
	store     ports.SecEducationStore
	attendees ports.AttendeeStore
	comments  reconcile.ChildStore[comments.Comment]
	codes     bizcode.Generator
	drafts    *draft.Store
	author    func(ctx context.Context) string
}

func NewSecEducationDialogs(
	kind kindcfg.Kind,
	store ports.SecEducationStore,
	attendees ports.AttendeeStore,
	commentStore reconcile.ChildStore[comments.Comment],
	codes bizcode.Generator,
	drafts *draft.Store,
	author func(ctx context.Context) string,
) SecEducationDialogs {
	return SecEducationDialogs{
		kind:      kind,
		store:     store,
		attendees: attendees,
		comments:  commentStore,
		codes:     codes,
		drafts:    drafts,
		author:    author,
	}
}

func (s SecEducationDialogs) Open(ctx context.Context, mode draft.Mode, recordID string) (*dialog.Session, error) {
	author := "system"
	if s.author != nil {
		author = s.author(ctx)
	}

	commentsCol, _ := s.kind.Collection("comments")
	cfg := dialog.Config{
		Kind:    s.kind,
		Records: secEducationRecordOps{store: s.store},
		Codes:   s.codes,
		Drafts:  s.drafts,
		Collections: []dialog.Spec{
			dialog.CollectionSpec[types.AttendeeItem]{
				Name:   "attendees",
				Editor: attendeeEditor(s.kind),
				Store:  s.attendees,
			},
			dialog.CollectionSpec[comments.Comment]{
				Name:         commentsCol.Name,
				Editor:       comments.EditorConfig(commentsCol.PageSize, author),
				Store:        s.comments,
				ReverseAdded: commentsCol.ReverseInsert,
			},
		},
	}
	return dialog.Open(ctx, cfg, mode, recordID)
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

type secEducationRecordOps struct {
	store ports.SecEducationStore
}

func (o secEducationRecordOps) Load(ctx context.Context, id string) (map[string]string, error) {
	e, err := o.store.GetSecEducation(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"code":            e.Code,
		"name":            e.Name,
		"execution_date":  e.ExecutionDate,
		"location":        e.Location,
		"education_type":  e.EducationType,
		"target_audience": e.TargetAudience,
		"status":          e.Status,
	}, nil
}

func (o secEducationRecordOps) Create(ctx context.Context, fields map[string]string) (string, error) {
	return o.store.CreateSecEducation(ctx, secEducationFromFields(fields))
}

func (o secEducationRecordOps) Update(ctx context.Context, id string, fields map[string]string) error {
	return o.store.UpdateSecEducation(ctx, id, secEducationFromFields(fields))
}

func secEducationFromFields(fields map[string]string) types.SecEducation {
	return types.SecEducation{
		Code:           fields["code"],
		Name:           fields["name"],
		ExecutionDate:  fields["execution_date"],
		Location:       fields["location"],
		EducationType:  fields["education_type"],
		TargetAudience: fields["target_audience"],
		Status:         fields["status"],
	}
}
