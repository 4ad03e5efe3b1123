package ports

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/seceducation/domain/types"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

type SecEducationStore interface {
	GetSecEducation(ctx context.Context, id string) (types.SecEducation, error)
	ListSecEducations(ctx context.Context) ([]types.SecEducation, error)
	CreateSecEducation(ctx context.Context, e types.SecEducation) (string, error)
	UpdateSecEducation(ctx context.Context, id string, e types.SecEducation) error
}

type AttendeeStore = reconcile.ChildStore[types.AttendeeItem]
