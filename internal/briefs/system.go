package briefs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
)

// System defines the weekly brief store operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[WeeklyBrief], error)
	Find(ctx context.Context, id uuid.UUID) (*WeeklyBrief, error)
	Full(ctx context.Context, id uuid.UUID) (*FullBrief, error)
	Current(ctx context.Context) (*WeeklyBrief, error)
	ForWeek(ctx context.Context, weekStart, weekEnd time.Time) (*WeeklyBrief, error)
	Create(ctx context.Context, cmd CreateCommand) (*WeeklyBrief, error)
}
