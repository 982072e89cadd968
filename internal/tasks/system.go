package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/pkg/pagination"
)

// System defines the public contract for task domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Task], error)

	Find(ctx context.Context, id uuid.UUID) (*Task, error)
	Create(ctx context.Context, cmd CreateCommand) (*Task, error)
}
