package tasks

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/pkg/query"
	"github.com/sajilokaam/docpipe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "tasks", "t").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("title", "Title").
	Project("description", "Description").
	Project("priority", "Priority").
	Project("due_date", "DueDate").
	Project("estimated_hours", "EstimatedHours").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for task queries.
// Nil fields are ignored.
type Filters struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Priority  *string    `json:"priority,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProjectID", f.ProjectID).
		WhereEquals("Status", f.Status).
		WhereEquals("Priority", f.Priority)
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

	if p := values.Get("priority"); p != "" {
		f.Priority = &p
	}

	return f
}

func scanTask(s repository.Scanner) (Task, error) {
	var t Task
	err := s.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.DueDate,
		&t.EstimatedHours,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}
