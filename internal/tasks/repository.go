package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/pkg/pagination"
	"github.com/sajilokaam/docpipe/pkg/query"
	"github.com/sajilokaam/docpipe/pkg/repository"
)

var priorities = []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}

// NormalizePriority maps a stored priority value onto the task priority
// scale. Values that cannot be mapped degrade to MEDIUM instead of failing,
// so approval of older or hand-edited suggestions never aborts on priority.
func NormalizePriority(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	if slices.Contains(priorities, p) {
		return p
	}
	return "MEDIUM"
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a task repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "tasks"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Task], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	tasks, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTask)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	result := pagination.NewPageResult(tasks, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Task, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTask)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Task, error) {
	if cmd.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrInvalid)
	}
	if cmd.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: project_id required", ErrInvalid)
	}
	if !slices.Contains(priorities, cmd.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalid, cmd.Priority)
	}

	q := `
		INSERT INTO tasks(id, project_id, title, description, priority, due_date, estimated_hours, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, project_id, title, description, priority, due_date, estimated_hours, status, created_at, updated_at`

	insertArgs := []any{
		uuid.New(),
		cmd.ProjectID,
		cmd.Title,
		cmd.Description,
		cmd.Priority,
		cmd.DueDate,
		cmd.EstimatedHours,
		StatusTodo,
	}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Task, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanTask)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("task created", "id", t.ID, "project", t.ProjectID, "title", t.Title)
	return &t, nil
}
