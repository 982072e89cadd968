// Package projects implements the project domain: the marketplace projects
// that uploaded documents and extracted tasks belong to.
package projects

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a marketplace project that owns tasks and processing runs.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a new project.
type CreateCommand struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
}
