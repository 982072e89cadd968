package runs

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/pkg/query"
	"github.com/sajilokaam/docpipe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "processing_runs", "r").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("uploader_id", "UploaderID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("file_kind", "FileKind").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("extracted_text", "ExtractedText").
	Project("error_message", "ErrorMessage").
	Project("suggestion_count", "SuggestionCount").
	Project("created_at", "CreatedAt").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// columns is the unqualified column list in scanRun order, used by
// INSERT ... RETURNING.
const columns = `id, project_id, uploader_id, filename, content_type, file_kind, size_bytes, page_count, storage_key, status, extracted_text, error_message, suggestion_count, created_at, started_at, completed_at`

// Filters contains optional filtering criteria for run queries.
// Nil fields are ignored.
type Filters struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Status    *string    `json:"status,omitempty"`
	FileKind  *string    `json:"file_kind,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProjectID", f.ProjectID).
		WhereEquals("Status", f.Status).
		WhereEquals("FileKind", f.FileKind)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if p := values.Get("project_id"); p != "" {
		if id, err := uuid.Parse(p); err == nil {
			f.ProjectID = &id
		}
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if k := values.Get("file_kind"); k != "" {
		f.FileKind = &k
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.ProjectID,
		&r.UploaderID,
		&r.Filename,
		&r.ContentType,
		&r.FileKind,
		&r.SizeBytes,
		&r.PageCount,
		&r.StorageKey,
		&r.Status,
		&r.ExtractedText,
		&r.ErrorMessage,
		&r.SuggestionCount,
		&r.CreatedAt,
		&r.StartedAt,
		&r.CompletedAt,
	)
	return r, err
}
