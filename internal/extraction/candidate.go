// Package extraction generates task candidates from plain text. Three
// rule-based strategies scan for task markers, bullets, and numbered lists;
// a remote model service provides a fourth strategy with local fallback.
// Candidates are deduplicated by title similarity and ranked by confidence.
package extraction

import "time"

// Extraction method tags recorded on each candidate.
const (
	MethodTaskMarker   = "TASK_MARKER"
	MethodBulletList   = "BULLET_PATTERN"
	MethodNumberedList = "NUMBERED_LIST"
	MethodRemote       = "ML_SERVICE"
)

// Task priority levels, ordered by urgency.
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

// Candidate is a raw task suggestion produced by a single strategy,
// prior to deduplication and persistence.
type Candidate struct {
	Title          string
	Description    *string
	Priority       string
	DueDate        *time.Time
	EstimatedHours *int
	Confidence     float64
	Method         string
	Snippet        string
	LineNumber     *int
}

// Strategy produces zero or more candidates from plain text.
// Implementations are stateless and safe for concurrent use.
type Strategy interface {
	Generate(text string) []Candidate
}
