package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/pkg/pagination"
)

// System defines the public contract for processing run operations.
// Status mutations are guarded so terminal runs can never move again.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	Create(ctx context.Context, cmd CreateCommand) (*Run, error)

	// MarkProcessing moves a PENDING run to PROCESSING and stamps started_at.
	// Returns ErrInvalidTransition if the run is not PENDING.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// StoreText records the extracted plain text on a PROCESSING run.
	StoreText(ctx context.Context, id uuid.UUID, text string) error

	// MarkCompleted moves a PROCESSING run to COMPLETED with its suggestion
	// count. Returns ErrInvalidTransition if the run is not PROCESSING.
	MarkCompleted(ctx context.Context, id uuid.UUID, suggestionCount int) error

	// MarkFailed moves a PENDING or PROCESSING run to FAILED with a
	// human-readable message. Terminal runs are left untouched.
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}
