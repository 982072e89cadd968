package runs

import (
	"context"
	"database/sql"
	"errors"
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

// New creates a processing run repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "runs"),
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
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "ErrorMessage")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	runs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(runs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Run, error) {
	q := `
		INSERT INTO processing_runs(id, project_id, uploader_id, filename, content_type, file_kind, size_bytes, page_count, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + columns

	insertArgs := []any{
		uuid.New(),
		cmd.ProjectID,
		cmd.UploaderID,
		cmd.Filename,
		cmd.ContentType,
		cmd.FileKind,
		cmd.SizeBytes,
		cmd.PageCount,
		cmd.StorageKey,
		StatusPending,
	}

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanRun)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run created", "id", run.ID, "project", run.ProjectID, "kind", run.FileKind)
	return &run, nil
}

// Status transitions use guarded UPDATEs: the WHERE clause names the only
// statuses the transition may leave from, so terminal runs never move.

func (r *repo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE processing_runs
		 SET status = $1, started_at = now()
		 WHERE id = $2 AND status = $3`,
		StatusProcessing, id, StatusPending,
	)
	return r.mapTransitionError(ctx, id, err)
}

func (r *repo) StoreText(ctx context.Context, id uuid.UUID, text string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE processing_runs
		 SET extracted_text = $1
		 WHERE id = $2 AND status = $3`,
		text, id, StatusProcessing,
	)
	return r.mapTransitionError(ctx, id, err)
}

func (r *repo) MarkCompleted(ctx context.Context, id uuid.UUID, suggestionCount int) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE processing_runs
		 SET status = $1, suggestion_count = $2, completed_at = now()
		 WHERE id = $3 AND status = $4`,
		StatusCompleted, suggestionCount, id, StatusProcessing,
	)

	if err == nil {
		r.logger.Info("run completed", "id", id, "suggestions", suggestionCount)
	}
	return r.mapTransitionError(ctx, id, err)
}

func (r *repo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE processing_runs
		 SET status = $1, error_message = $2, completed_at = now()
		 WHERE id = $3 AND status IN ($4, $5)`,
		StatusFailed, message, id, StatusPending, StatusProcessing,
	)

	if err == nil {
		r.logger.Warn("run failed", "id", id, "error", message)
	}
	return r.mapTransitionError(ctx, id, err)
}

// mapTransitionError distinguishes a missing run from a guarded update
// that matched no rows because the run already left the source status.
func (r *repo) mapTransitionError(ctx context.Context, id uuid.UUID, err error) error {
	return resolveTransitionError(err, func() error {
		_, findErr := r.Find(ctx, id)
		return findErr
	})
}

// resolveTransitionError interprets the outcome of a guarded status update.
// A no-row result on an existing run means the run is no longer in a source
// status the transition may leave from.
func resolveTransitionError(err error, find func() error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if findErr := find(); findErr != nil {
		return findErr
	}
	return ErrInvalidTransition
}
