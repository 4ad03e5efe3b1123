package services

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/regulation/domain/ports"
	"github.com/hanbitworks/backoffice/modules/regulation/domain/types"
	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/comments"
	"github.com/hanbitworks/backoffice/pkg/dialog"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/kindcfg"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

// RegulationDialogs opens edit dialogs for regulation records. The
// only child collection is the comment thread.
type RegulationDialogs struct {
	kind     kindcfg.Kind
	store    ports.RegulationStore
	comments reconcile.ChildStore[comments.Comment]
	codes    bizcode.Generator
	drafts   *draft.Store
	author   func(ctx context.Context) string
}

func NewRegulationDialogs(
	kind kindcfg.Kind,
	store ports.RegulationStore,
	commentStore reconcile.ChildStore[comments.Comment],
	codes bizcode.Generator,
	drafts *draft.Store,
	author func(ctx context.Context) string,
) RegulationDialogs {
	return RegulationDialogs{
		kind:     kind,
		store:    store,
		comments: commentStore,
		codes:    codes,
		drafts:   drafts,
		author:   author,
	}
}

func (s RegulationDialogs) Open(ctx context.Context, mode draft.Mode, recordID string) (*dialog.Session, error) {
	author := "system"
	if s.author != nil {
		author = s.author(ctx)
	}

	col, _ := s.kind.Collection("comments")
	cfg := dialog.Config{
		Kind:    s.kind,
		Records: regulationRecordOps{store: s.store},
		Codes:   s.codes,
		Drafts:  s.drafts,
		Collections: []dialog.Spec{
			dialog.CollectionSpec[comments.Comment]{
				Name:         col.Name,
				Editor:       comments.EditorConfig(col.PageSize, author),
				Store:        s.comments,
				ReverseAdded: col.ReverseInsert,
			},
		},
	}
	return dialog.Open(ctx, cfg, mode, recordID)
}

type regulationRecordOps struct {
	store ports.RegulationStore
}

func (o regulationRecordOps) Load(ctx context.Context, id string) (map[string]string, error) {
	r, err := o.store.GetRegulation(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"code":          r.Code,
		"title":         r.Title,
		"document_type": r.DocumentType,
		"assignee":      r.Assignee,
		"team_name":     r.TeamName,
		"due_date":      r.DueDate,
		"created_date":  r.CreatedDate,
		"status":        r.Status,
	}, nil
}

func (o regulationRecordOps) Create(ctx context.Context, fields map[string]string) (string, error) {
	return o.store.CreateRegulation(ctx, regulationFromFields(fields))
}

func (o regulationRecordOps) Update(ctx context.Context, id string, fields map[string]string) error {
	return o.store.UpdateRegulation(ctx, id, regulationFromFields(fields))
}

func regulationFromFields(fields map[string]string) types.Regulation {
	return types.Regulation{
		Code:         fields["code"],
		Title:        fields["title"],
		DocumentType: fields["document_type"],
		Assignee:     fields["assignee"],
		TeamName:     fields["team_name"],
		DueDate:      fields["due_date"],
		CreatedDate:  fields["created_date"],
		Status:       fields["status"],
	}
}
