package ports

import (
	"context"

	"github.com/hanbitworks/backoffice/modules/regulation/domain/types"
)

type RegulationStore interface {
	GetRegulation(ctx context.Context, id string) (types.Regulation, error)
	ListRegulations(ctx context.Context) ([]types.Regulation, error)
	CreateRegulation(ctx context.Context, r types.Regulation) (string, error)
	UpdateRegulation(ctx context.Context, id string, r types.Regulation) error
}
