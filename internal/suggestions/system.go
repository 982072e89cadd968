package suggestions

import (
	"context"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/internal/extraction"
	"github.com/sajilokaam/docpipe/internal/tasks"
)

// System defines the public contract for suggestion domain operations.
type System interface {
	Handler() *Handler

	// CreateBatch persists candidates for a run in ranked order, returning
	// the number of suggestions created.
	CreateBatch(ctx context.Context, runID uuid.UUID, candidates []extraction.Candidate) (int, error)

	// ListByRun returns a run's suggestions ordered by confidence descending.
	// Returns runs.ErrNotFound for an unknown run.
	ListByRun(ctx context.Context, runID uuid.UUID) ([]Suggestion, error)

	Find(ctx context.Context, id uuid.UUID) (*Suggestion, error)

	// Approve resolves the given suggestions as APPROVED, creating one task
	// per eligible suggestion in the run's project. Suggestions belonging to
	// other runs or already resolved are skipped. Partial success: tasks
	// created before a failure are kept.
	Approve(ctx context.Context, runID uuid.UUID, ids []uuid.UUID) ([]tasks.Task, error)

	// Reject resolves the given suggestions as REJECTED under the same
	// scoping rules as Approve.
	Reject(ctx context.Context, runID uuid.UUID, ids []uuid.UUID) error
}
