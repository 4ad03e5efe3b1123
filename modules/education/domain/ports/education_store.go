package ports

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

type EducationStore interface {
	GetEducation(ctx context.Context, id string) (types.Education, error)
	ListEducations(ctx context.Context) ([]types.Education, error)
	CreateEducation(ctx context.Context, e types.Education) (string, error)
	UpdateEducation(ctx context.Context, id string, e types.Education) error
}

type CurriculumStore = reconcile.ChildStore[types.CurriculumItem]

type AttendeeStore = reconcile.ChildStore[types.AttendeeItem]
