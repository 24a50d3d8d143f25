package sources

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
)

// System defines the public contract for data source domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[DataSource], error)

	Enabled(ctx context.Context) ([]DataSource, error)
	Find(ctx context.Context, id uuid.UUID) (*DataSource, error)
	Create(ctx context.Context, cmd CreateCommand) (*DataSource, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*DataSource, error)
	Delete(ctx context.Context, id uuid.UUID) error

	RecordSuccess(ctx context.Context, id uuid.UUID) error
	RecordFailure(ctx context.Context, id uuid.UUID, collectErr error) error
}
