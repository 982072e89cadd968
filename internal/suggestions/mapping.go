package suggestions

import (
	"github.com/sajilokaam/docpipe/pkg/query"
	"github.com/sajilokaam/docpipe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "task_suggestions", "s").
	Project("id", "ID").
	Project("run_id", "RunID").
	Project("title", "Title").
	Project("description", "Description").
	Project("priority", "Priority").
	Project("due_date", "DueDate").
	Project("estimated_hours", "EstimatedHours").
	Project("confidence", "Confidence").
	Project("method", "Method").
	Project("snippet", "Snippet").
	Project("line_number", "LineNumber").
	Project("ordinal", "Ordinal").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("resolved_at", "ResolvedAt")

// Ranked order: confidence descending with ordinal preserving the original
// relative order of equal confidences.
var rankedSort = []query.SortField{
	{Field: "Confidence", Descending: true},
	{Field: "Ordinal", Descending: false},
}

func scanSuggestion(sc repository.Scanner) (Suggestion, error) {
	var s Suggestion
	err := sc.Scan(
		&s.ID,
		&s.RunID,
		&s.Title,
		&s.Description,
		&s.Priority,
		&s.DueDate,
		&s.EstimatedHours,
		&s.Confidence,
		&s.Method,
		&s.Snippet,
		&s.LineNumber,
		&s.Ordinal,
		&s.Status,
		&s.CreatedAt,
		&s.ResolvedAt,
	)
	return s, err
}
