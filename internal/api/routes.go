package api

import (
	"net/http"

	"github.com/sajilokaam/docpipe/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
) {
	routes.Register(
		mux,
		domain.Projects.Handler().Routes(),
		domain.Tasks.Handler().Routes(),
		domain.Runs.Handler().Routes(),
		domain.Suggestions.Handler().Routes(),
		domain.Pipeline.Handler().Routes(),
	)
}
