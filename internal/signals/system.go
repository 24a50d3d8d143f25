package signals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
)

// System defines the public contract for signal domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Signal], error)

	Find(ctx context.Context, id uuid.UUID) (*Signal, error)
	Create(ctx context.Context, cmd CreateCommand) (*Signal, error)
	CreateFromCollector(ctx context.Context, cs CollectorSignal) (*Signal, error)
	Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Signal, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ForWeek(ctx context.Context, weekEnd time.Time) ([]Signal, error)
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]Signal, error)
	SemanticSearch(ctx context.Context, query string, limit int) ([]SearchResult, error)
	WarmIndex(ctx context.Context) (int, error)
}
