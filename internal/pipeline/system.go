// Package pipeline orchestrates document processing runs: upload
// validation, blob storage, asynchronous text extraction, candidate
// generation, and suggestion persistence.
package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/internal/runs"
	"github.com/sajilokaam/docpipe/pkg/lifecycle"
)

// ProcessCommand carries an uploaded file and its ownership metadata.
type ProcessCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	ProjectID   uuid.UUID
	UploaderID  uuid.UUID
}

// System defines the public contract for the processing pipeline.
type System interface {
	Handler() *Handler

	// Start registers a shutdown hook that waits for in-flight runs.
	Start(lc *lifecycle.Coordinator) error

	// Process validates the upload, stores the blob, creates a PENDING run,
	// and dispatches asynchronous processing. The returned run is the
	// pollable handle; its terminal status arrives later.
	Process(ctx context.Context, cmd ProcessCommand) (*runs.Run, error)
}
