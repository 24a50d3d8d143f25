package themes

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
)

// System defines the public contract for theme domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Theme], error)
	Find(ctx context.Context, id uuid.UUID) (*Theme, error)
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]Theme, error)
	Save(ctx context.Context, draft Draft) (*Theme, error)
	Delete(ctx context.Context, ids []uuid.UUID) error
}
