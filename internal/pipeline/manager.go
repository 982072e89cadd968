package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/sajilokaam/docpipe/internal/extraction"
	"github.com/sajilokaam/docpipe/internal/projects"
	"github.com/sajilokaam/docpipe/internal/runs"
	"github.com/sajilokaam/docpipe/internal/suggestions"
	"github.com/sajilokaam/docpipe/pkg/extract"
	"github.com/sajilokaam/docpipe/pkg/lifecycle"
	"github.com/sajilokaam/docpipe/pkg/storage"
)

type manager struct {
	runs        runs.System
	suggestions suggestions.System
	projects    projects.System
	storage     storage.System
	extractor   extract.Extractor
	engine      *extraction.Engine
	logger      *slog.Logger
	maxBytes    int64
	inflight    sync.WaitGroup
}

// New creates the pipeline manager.
func New(
	runSys runs.System,
	suggestionSys suggestions.System,
	projectSys projects.System,
	store storage.System,
	extractor extract.Extractor,
	engine *extraction.Engine,
	logger *slog.Logger,
	cfg *Config,
) System {
	return &manager{
		runs:        runSys,
		suggestions: suggestionSys,
		projects:    projectSys,
		storage:     store,
		extractor:   extractor,
		engine:      engine,
		logger:      logger.With("system", "pipeline"),
		maxBytes:    cfg.MaxFileSizeBytes(),
	}
}

func (m *manager) Handler() *Handler {
	return NewHandler(m, m.logger, m.maxBytes)
}

func (m *manager) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		m.logger.Info("waiting for in-flight runs")
		m.inflight.Wait()
		m.logger.Info("all runs drained")
	})
	return nil
}

func (m *manager) Process(ctx context.Context, cmd ProcessCommand) (*runs.Run, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(cmd.Data)) > m.maxBytes {
		return nil, ErrFileTooLarge
	}

	if _, err := m.projects.Find(ctx, cmd.ProjectID); err != nil {
		return nil, err
	}

	kind := extract.ResolveKind(cmd.Filename, "", cmd.ContentType)
	key := buildStorageKey(uuid.New(), sanitizeFilename(cmd.Filename))

	if err := m.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload run blob: %w", err)
	}

	run, err := m.runs.Create(ctx, runs.CreateCommand{
		ProjectID:   cmd.ProjectID,
		UploaderID:  cmd.UploaderID,
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		FileKind:    string(kind),
		SizeBytes:   int64(len(cmd.Data)),
		PageCount:   m.pdfPageCount(cmd.Data, kind),
		StorageKey:  key,
	})
	if err != nil {
		if delErr := m.storage.Delete(ctx, key); delErr != nil {
			m.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, err
	}

	m.inflight.Go(func() {
		m.execute(run)
	})

	return run, nil
}

// execute drives a run through its stages on a detached context: an
// in-flight run is never cancelled by the upload request or by shutdown.
func (m *manager) execute(run *runs.Run) {
	ctx := context.Background()
	logger := m.logger.With("run", run.ID)

	if err := m.runs.MarkProcessing(ctx, run.ID); err != nil {
		// the run must still reach a terminal status
		m.fail(ctx, logger, run.ID, fmt.Errorf("start run: %w", err))
		return
	}

	text, err := m.extractText(ctx, run)
	if err != nil {
		m.fail(ctx, logger, run.ID, err)
		return
	}

	if err := m.runs.StoreText(ctx, run.ID, text); err != nil {
		m.fail(ctx, logger, run.ID, fmt.Errorf("store extracted text: %w", err))
		return
	}

	candidates := m.engine.Generate(ctx, text)

	count, err := m.suggestions.CreateBatch(ctx, run.ID, candidates)
	if err != nil {
		// extracted text stays on the run for inspection
		m.fail(ctx, logger, run.ID, fmt.Errorf("persist suggestions: %w", err))
		return
	}

	if err := m.runs.MarkCompleted(ctx, run.ID, count); err != nil {
		logger.Error("could not complete run", "error", err)
	}
}

func (m *manager) extractText(ctx context.Context, run *runs.Run) (string, error) {
	reader, err := m.storage.Download(ctx, run.StorageKey)
	if err != nil {
		return "", fmt.Errorf("download run blob: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read run blob: %w", err)
	}

	return m.extractor.Extract(ctx, data, extract.Kind(run.FileKind))
}

func (m *manager) fail(ctx context.Context, logger *slog.Logger, id uuid.UUID, cause error) {
	logger.Error("run failed", "error", cause)
	if err := m.runs.MarkFailed(ctx, id, cause.Error()); err != nil {
		logger.Error("could not mark run failed", "error", err)
	}
}

func (m *manager) pdfPageCount(data []byte, kind extract.Kind) *int {
	if kind != extract.KindPDF {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		m.logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}
	return &count
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("runs/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
