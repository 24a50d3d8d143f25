package entities

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
)

// System defines the public contract for entity domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entity], error)

	All(ctx context.Context) ([]Entity, error)
	Find(ctx context.Context, id uuid.UUID) (*Entity, error)
	FindByName(ctx context.Context, name string) (*Entity, error)
	Create(ctx context.Context, cmd CreateCommand) (*Entity, error)
	Ensure(ctx context.Context, name string) (*Entity, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Entity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SegmentStatistics(ctx context.Context) ([]SegmentStats, error)

	Resolve(ctx context.Context, text string) ([]Match, error)
}
