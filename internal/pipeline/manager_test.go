package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/internal/extraction"
	"github.com/sajilokaam/docpipe/internal/pipeline"
	"github.com/sajilokaam/docpipe/internal/projects"
	"github.com/sajilokaam/docpipe/internal/runs"
	"github.com/sajilokaam/docpipe/internal/suggestions"
	"github.com/sajilokaam/docpipe/internal/tasks"
	"github.com/sajilokaam/docpipe/pkg/extract"
	"github.com/sajilokaam/docpipe/pkg/lifecycle"
	"github.com/sajilokaam/docpipe/pkg/pagination"
	"github.com/sajilokaam/docpipe/pkg/storage"
)

type fakeRuns struct {
	mu        sync.Mutex
	created   []runs.CreateCommand
	createErr error

	processing    []uuid.UUID
	processingErr error
	storedText    string
	completed     int
	failedMsg     string

	done chan struct{}
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{done: make(chan struct{})}
}

func (f *fakeRuns) Handler() *runs.Handler { return nil }

func (f *fakeRuns) List(context.Context, pagination.PageRequest, runs.Filters) (*pagination.PageResult[runs.Run], error) {
	return nil, nil
}

func (f *fakeRuns) Find(context.Context, uuid.UUID) (*runs.Run, error) {
	return nil, runs.ErrNotFound
}

func (f *fakeRuns) Create(_ context.Context, cmd runs.CreateCommand) (*runs.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, cmd)

	return &runs.Run{
		ID:          uuid.New(),
		ProjectID:   cmd.ProjectID,
		UploaderID:  cmd.UploaderID,
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		FileKind:    cmd.FileKind,
		SizeBytes:   cmd.SizeBytes,
		PageCount:   cmd.PageCount,
		StorageKey:  cmd.StorageKey,
		Status:      runs.StatusPending,
		CreatedAt:   time.Now(),
	}, nil
}

func (f *fakeRuns) MarkProcessing(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processingErr != nil {
		return f.processingErr
	}
	f.processing = append(f.processing, id)
	return nil
}

func (f *fakeRuns) StoreText(_ context.Context, _ uuid.UUID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storedText = text
	return nil
}

func (f *fakeRuns) MarkCompleted(_ context.Context, _ uuid.UUID, count int) error {
	f.mu.Lock()
	f.completed = count
	f.mu.Unlock()
	close(f.done)
	return nil
}

func (f *fakeRuns) MarkFailed(_ context.Context, _ uuid.UUID, message string) error {
	f.mu.Lock()
	f.failedMsg = message
	f.mu.Unlock()
	close(f.done)
	return nil
}

func (f *fakeRuns) wait(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not reach a terminal state")
	}
}

type fakeSuggestions struct {
	mu         sync.Mutex
	candidates []extraction.Candidate
	createErr  error
}

func (f *fakeSuggestions) Handler() *suggestions.Handler { return nil }

func (f *fakeSuggestions) CreateBatch(_ context.Context, _ uuid.UUID, candidates []extraction.Candidate) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.candidates = candidates
	return len(candidates), nil
}

func (f *fakeSuggestions) ListByRun(context.Context, uuid.UUID) ([]suggestions.Suggestion, error) {
	return nil, nil
}

func (f *fakeSuggestions) Find(context.Context, uuid.UUID) (*suggestions.Suggestion, error) {
	return nil, suggestions.ErrNotFound
}

func (f *fakeSuggestions) Approve(context.Context, uuid.UUID, []uuid.UUID) ([]tasks.Task, error) {
	return nil, nil
}

func (f *fakeSuggestions) Reject(context.Context, uuid.UUID, []uuid.UUID) error {
	return nil
}

type fakeProjects struct {
	known map[uuid.UUID]bool
}

func (f *fakeProjects) Handler() *projects.Handler { return nil }

func (f *fakeProjects) List(context.Context, pagination.PageRequest) (*pagination.PageResult[projects.Project], error) {
	return nil, nil
}

func (f *fakeProjects) Find(_ context.Context, id uuid.UUID) (*projects.Project, error) {
	if !f.known[id] {
		return nil, projects.ErrNotFound
	}
	return &projects.Project{ID: id, Name: "demo"}, nil
}

func (f *fakeProjects) Create(context.Context, projects.CreateCommand) (*projects.Project, error) {
	return nil, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: map[string][]byte{}}
}

func (f *fakeStorage) Start(*lifecycle.Coordinator) error { return nil }

func (f *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = data
	return nil
}

func (f *fakeStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(f.blobs, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok, nil
}

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, data []byte, _ extract.Kind) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return string(data), nil
}

type fixture struct {
	sys       pipeline.System
	runs      *fakeRuns
	sugg      *fakeSuggestions
	store     *fakeStorage
	projectID uuid.UUID
}

func newFixture(t *testing.T, extractor extract.Extractor, sugg *fakeSuggestions) *fixture {
	t.Helper()

	cfg := &pipeline.Config{MaxFileSize: "1MB"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	extractionCfg := &extraction.Config{}
	if err := extractionCfg.Finalize(nil); err != nil {
		t.Fatalf("finalize extraction config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	projectID := uuid.New()

	fr := newFakeRuns()
	fs := newFakeStorage()

	sys := pipeline.New(
		fr,
		sugg,
		&fakeProjects{known: map[uuid.UUID]bool{projectID: true}},
		fs,
		extractor,
		extraction.NewEngine(extractionCfg, logger),
		logger,
		cfg,
	)

	return &fixture{sys: sys, runs: fr, sugg: sugg, store: fs, projectID: projectID}
}

func uploadCommand(projectID uuid.UUID, data []byte) pipeline.ProcessCommand {
	return pipeline.ProcessCommand{
		Data:        data,
		Filename:    "notes.txt",
		ContentType: "text/plain",
		ProjectID:   projectID,
		UploaderID:  uuid.New(),
	}
}

func TestProcessValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty file rejected", func(t *testing.T) {
		f := newFixture(t, &fakeExtractor{}, &fakeSuggestions{})
		if _, err := f.sys.Process(ctx, uploadCommand(f.projectID, nil)); !errors.Is(err, pipeline.ErrEmptyFile) {
			t.Errorf("err = %v, want ErrEmptyFile", err)
		}
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		f := newFixture(t, &fakeExtractor{}, &fakeSuggestions{})
		data := bytes.Repeat([]byte("a"), 2*1024*1024)
		if _, err := f.sys.Process(ctx, uploadCommand(f.projectID, data)); !errors.Is(err, pipeline.ErrFileTooLarge) {
			t.Errorf("err = %v, want ErrFileTooLarge", err)
		}
	})

	t.Run("unknown project rejected", func(t *testing.T) {
		f := newFixture(t, &fakeExtractor{}, &fakeSuggestions{})
		if _, err := f.sys.Process(ctx, uploadCommand(uuid.New(), []byte("content"))); !errors.Is(err, projects.ErrNotFound) {
			t.Errorf("err = %v, want projects.ErrNotFound", err)
		}
	})
}

func TestProcessCompletesRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeExtractor{}, &fakeSuggestions{})

	document := "- Implement search page by 2025-12-01, priority: high, estimate: 8 hours\n"

	run, err := f.sys.Process(ctx, uploadCommand(f.projectID, []byte(document)))
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if run.Status != runs.StatusPending {
		t.Errorf("status = %q, want PENDING handle", run.Status)
	}
	if run.FileKind != string(extract.KindPlainText) {
		t.Errorf("file kind = %q, want %q", run.FileKind, extract.KindPlainText)
	}
	if !strings.HasPrefix(run.StorageKey, "runs/") {
		t.Errorf("storage key = %q, want runs/ prefix", run.StorageKey)
	}
	if _, ok := f.store.blobs[run.StorageKey]; !ok {
		t.Error("uploaded blob missing from storage")
	}

	f.runs.wait(t)

	f.runs.mu.Lock()
	defer f.runs.mu.Unlock()

	if len(f.runs.processing) != 1 {
		t.Errorf("processing transitions = %d, want 1", len(f.runs.processing))
	}
	if f.runs.storedText != document {
		t.Errorf("stored text = %q, want the extracted document", f.runs.storedText)
	}
	if f.runs.completed != 1 {
		t.Errorf("completed count = %d, want 1", f.runs.completed)
	}

	f.sugg.mu.Lock()
	defer f.sugg.mu.Unlock()

	if len(f.sugg.candidates) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(f.sugg.candidates))
	}

	c := f.sugg.candidates[0]
	if c.Method != extraction.MethodBulletList {
		t.Errorf("method = %q, want %q", c.Method, extraction.MethodBulletList)
	}
	if c.Priority != extraction.PriorityHigh {
		t.Errorf("priority = %q, want HIGH", c.Priority)
	}
	if c.DueDate == nil || c.DueDate.Format("2006-01-02") != "2025-12-01" {
		t.Errorf("due date = %v, want 2025-12-01", c.DueDate)
	}
	if c.EstimatedHours == nil || *c.EstimatedHours != 8 {
		t.Errorf("hours = %v, want 8", c.EstimatedHours)
	}
	if c.Confidence != 0.70 {
		t.Errorf("confidence = %v, want 0.70", c.Confidence)
	}
}

func TestProcessFailsRunOnExtractionError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeExtractor{err: extract.ErrUnreadable}, &fakeSuggestions{})

	if _, err := f.sys.Process(ctx, uploadCommand(f.projectID, []byte("garbled"))); err != nil {
		t.Fatalf("process: %v", err)
	}

	f.runs.wait(t)

	f.runs.mu.Lock()
	defer f.runs.mu.Unlock()

	if f.runs.failedMsg == "" {
		t.Error("failed message empty, want extraction error recorded")
	}
	if f.runs.completed != 0 {
		t.Errorf("completed count = %d, want no completion", f.runs.completed)
	}
}

func TestProcessFailsRunOnSuggestionPersistError(t *testing.T) {
	ctx := context.Background()
	sugg := &fakeSuggestions{createErr: errors.New("insert failed")}
	f := newFixture(t, &fakeExtractor{}, sugg)

	document := "- Implement the export job for reports\n"
	if _, err := f.sys.Process(ctx, uploadCommand(f.projectID, []byte(document))); err != nil {
		t.Fatalf("process: %v", err)
	}

	f.runs.wait(t)

	f.runs.mu.Lock()
	defer f.runs.mu.Unlock()

	if f.runs.failedMsg == "" {
		t.Error("failed message empty, want persistence error recorded")
	}
	// extracted text survives the failure for inspection
	if f.runs.storedText != document {
		t.Errorf("stored text = %q, want retained document text", f.runs.storedText)
	}
}

func TestProcessFailsRunWhenStartBlocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeExtractor{}, &fakeSuggestions{})
	f.runs.processingErr = runs.ErrInvalidTransition

	if _, err := f.sys.Process(ctx, uploadCommand(f.projectID, []byte("content"))); err != nil {
		t.Fatalf("process: %v", err)
	}

	f.runs.wait(t)

	f.runs.mu.Lock()
	defer f.runs.mu.Unlock()

	if !strings.Contains(f.runs.failedMsg, "start run") {
		t.Errorf("failed message = %q, want start failure recorded", f.runs.failedMsg)
	}
	if f.runs.completed != 0 {
		t.Errorf("completed count = %d, want no completion", f.runs.completed)
	}
}

func TestProcessCompensatesBlobOnCreateFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeExtractor{}, &fakeSuggestions{})
	f.runs.createErr = errors.New("insert failed")

	if _, err := f.sys.Process(ctx, uploadCommand(f.projectID, []byte("content here"))); err == nil {
		t.Fatal("err = nil, want create failure")
	}

	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if len(f.store.deleted) != 1 {
		t.Fatalf("deleted blobs = %d, want compensating delete", len(f.store.deleted))
	}
	if len(f.store.blobs) != 0 {
		t.Errorf("remaining blobs = %d, want 0", len(f.store.blobs))
	}
}
