package projects

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/pkg/pagination"
	"github.com/sajilokaam/docpipe/pkg/query"
	"github.com/sajilokaam/docpipe/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a project repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "projects"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[Project], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	projects, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProject)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}

	result := pagination.NewPageResult(projects, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Project, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Project, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalid)
	}
	if cmd.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner_id required", ErrInvalid)
	}

	q := `
		INSERT INTO projects(id, name, description, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, owner_id, created_at, updated_at`

	insertArgs := []any{uuid.New(), cmd.Name, cmd.Description, cmd.OwnerID}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanProject)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project created", "id", p.ID, "name", p.Name)
	return &p, nil
}
