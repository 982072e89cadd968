package projects

import (
	"github.com/sajilokaam/docpipe/pkg/query"
	"github.com/sajilokaam/docpipe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("owner_id", "OwnerID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanProject(s repository.Scanner) (Project, error) {
	var p Project
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.OwnerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
