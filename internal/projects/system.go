package projects

import (
	"context"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/pkg/pagination"
)

// System defines the public contract for project domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Project], error)
	Find(ctx context.Context, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, cmd CreateCommand) (*Project, error)
}
