// Package suggestions implements the task suggestion domain: candidates
// persisted for a processing run and resolved by human review. Approval
// materializes a suggestion as a real task in the run's project.
package suggestions

import (
	"time"

	"github.com/google/uuid"
)

// Resolution statuses. A suggestion resolves exactly once, from PENDING.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Suggestion is a ranked task candidate awaiting human resolution.
type Suggestion struct {
	ID             uuid.UUID  `json:"id"`
	RunID          uuid.UUID  `json:"run_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *int       `json:"estimated_hours"`
	Confidence     float64    `json:"confidence"`
	Method         string     `json:"method"`
	Snippet        *string    `json:"snippet"`
	LineNumber     *int       `json:"line_number"`
	Ordinal        int        `json:"ordinal"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at"`
}

// ResolveCommand carries the suggestion ids to approve or reject for a run.
type ResolveCommand struct {
	SuggestionIDs []uuid.UUID `json:"suggestion_ids"`
}

// resolvable reports whether the suggestion may be resolved against the
// given run: it must belong to that run and still be PENDING. Suggestions
// from other runs and already-resolved suggestions are skipped silently.
func (s *Suggestion) resolvable(runID uuid.UUID) bool {
	return s.RunID == runID && s.Status == StatusPending
}
