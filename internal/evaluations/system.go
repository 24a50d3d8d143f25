package evaluations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
)

// System defines the public contract for evaluation domain operations.
type System interface {
	Handler() *Handler

	Evaluate(
		ctx context.Context,
		contentType string,
		contentID uuid.UUID,
		data map[string]any,
	) (*EvaluationRun, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[EvaluationRun], error)

	Find(ctx context.Context, id uuid.UUID) (*EvaluationRun, error)
	ForContent(ctx context.Context, contentType string, contentID uuid.UUID) ([]EvaluationRun, error)
}
