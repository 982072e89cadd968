// Package tasks implements the task domain: the concrete work items
// materialized from approved suggestions or created directly.
package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses. Tasks created from approved suggestions start in TODO.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Task represents a work item belonging to a project.
type Task struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      uuid.UUID  `json:"project_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *int       `json:"estimated_hours"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to create a new task.
type CreateCommand struct {
	ProjectID      uuid.UUID  `json:"project_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *int       `json:"estimated_hours"`
}
