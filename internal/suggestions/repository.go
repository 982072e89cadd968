package suggestions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/internal/extraction"
	"github.com/sajilokaam/docpipe/internal/runs"
	"github.com/sajilokaam/docpipe/internal/tasks"
	"github.com/sajilokaam/docpipe/pkg/query"
	"github.com/sajilokaam/docpipe/pkg/repository"
)

type repo struct {
	db     *sql.DB
	runs   runs.System
	tasks  tasks.System
	logger *slog.Logger
}

// New creates a suggestion repository implementing the System interface.
// Approval creates tasks through the task system in the run's project.
func New(db *sql.DB, runSys runs.System, taskSys tasks.System, logger *slog.Logger) System {
	return &repo{
		db:     db,
		runs:   runSys,
		tasks:  taskSys,
		logger: logger.With("system", "suggestions"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) CreateBatch(
	ctx context.Context,
	runID uuid.UUID,
	candidates []extraction.Candidate,
) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	q := `
		INSERT INTO task_suggestions(id, run_id, title, description, priority, due_date, estimated_hours, confidence, method, snippet, line_number, ordinal, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	count, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		for ordinal, c := range candidates {
			var snippet *string
			if c.Snippet != "" {
				snippet = &c.Snippet
			}

			_, err := tx.ExecContext(ctx, q,
				uuid.New(),
				runID,
				c.Title,
				c.Description,
				c.Priority,
				c.DueDate,
				c.EstimatedHours,
				c.Confidence,
				c.Method,
				snippet,
				c.LineNumber,
				ordinal,
				StatusPending,
			)
			if err != nil {
				return 0, fmt.Errorf("insert suggestion %d: %w", ordinal, err)
			}
		}
		return len(candidates), nil
	})

	if err != nil {
		return 0, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("suggestions persisted", "run", runID, "count", count)
	return count, nil
}

func (r *repo) ListByRun(ctx context.Context, runID uuid.UUID) ([]Suggestion, error) {
	if _, err := r.runs.Find(ctx, runID); err != nil {
		return nil, err
	}

	qb := query.NewBuilder(projection, rankedSort...)
	qb.WhereEquals("RunID", runID)
	q, args := qb.Build()

	results, err := repository.QueryMany(ctx, r.db, q, args, scanSuggestion)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	return results, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Suggestion, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSuggestion)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Approve(ctx context.Context, runID uuid.UUID, ids []uuid.UUID) ([]tasks.Task, error) {
	run, err := r.runs.Find(ctx, runID)
	if err != nil {
		return nil, err
	}

	created := make([]tasks.Task, 0, len(ids))
	for _, id := range ids {
		suggestion, err := r.Find(ctx, id)
		if err != nil {
			return created, err
		}
		if !suggestion.resolvable(runID) {
			r.logger.Warn("skipping unresolvable suggestion",
				"id", id, "run", runID, "status", suggestion.Status)
			continue
		}

		task, err := r.tasks.Create(ctx, tasks.CreateCommand{
			ProjectID:      run.ProjectID,
			Title:          suggestion.Title,
			Description:    suggestion.Description,
			Priority:       tasks.NormalizePriority(suggestion.Priority),
			DueDate:        suggestion.DueDate,
			EstimatedHours: suggestion.EstimatedHours,
		})
		if err != nil {
			return created, fmt.Errorf("create task for suggestion %s: %w", id, err)
		}

		if err := r.resolve(ctx, runID, id, StatusApproved); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// lost a concurrent resolution race; the task stands
				r.logger.Warn("suggestion resolved concurrently", "id", id)
				continue
			}
			return created, err
		}

		created = append(created, *task)
	}

	r.logger.Info("suggestions approved", "run", runID, "tasks", len(created))
	return created, nil
}

func (r *repo) Reject(ctx context.Context, runID uuid.UUID, ids []uuid.UUID) error {
	if _, err := r.runs.Find(ctx, runID); err != nil {
		return err
	}

	for _, id := range ids {
		suggestion, err := r.Find(ctx, id)
		if err != nil {
			return err
		}
		if !suggestion.resolvable(runID) {
			r.logger.Warn("skipping unresolvable suggestion",
				"id", id, "run", runID, "status", suggestion.Status)
			continue
		}

		if err := r.resolve(ctx, runID, id, StatusRejected); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				r.logger.Warn("suggestion resolved concurrently", "id", id)
				continue
			}
			return err
		}
	}

	return nil
}

// resolve flips a suggestion to a terminal status. The WHERE clause rechecks
// run scope and PENDING status so concurrent resolutions cannot double-apply.
func (r *repo) resolve(ctx context.Context, runID, id uuid.UUID, status string) error {
	return repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE task_suggestions
		 SET status = $1, resolved_at = now()
		 WHERE id = $2 AND run_id = $3 AND status = $4`,
		status, id, runID, StatusPending,
	)
}
