// Package runs implements the processing run domain: the lifecycle record
// of a single document's journey from upload through candidate extraction.
package runs

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses. A run is created PENDING, moves to PROCESSING when the
// pipeline picks it up, and ends in COMPLETED or FAILED exactly once.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Run represents one document processing job and its outcome.
type Run struct {
	ID              uuid.UUID  `json:"id"`
	ProjectID       uuid.UUID  `json:"project_id"`
	UploaderID      uuid.UUID  `json:"uploader_id"`
	Filename        string     `json:"filename"`
	ContentType     string     `json:"content_type"`
	FileKind        string     `json:"file_kind"`
	SizeBytes       int64      `json:"size_bytes"`
	PageCount       *int       `json:"page_count"`
	StorageKey      string     `json:"storage_key"`
	Status          string     `json:"status"`
	ExtractedText   *string    `json:"extracted_text,omitempty"`
	ErrorMessage    *string    `json:"error_message"`
	SuggestionCount int        `json:"suggestion_count"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// CreateCommand carries the data needed to register a new processing run.
// The blob must already be uploaded at StorageKey.
type CreateCommand struct {
	ProjectID   uuid.UUID
	UploaderID  uuid.UUID
	Filename    string
	ContentType string
	FileKind    string
	SizeBytes   int64
	PageCount   *int
	StorageKey  string
}
