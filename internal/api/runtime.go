package api

import (
	"github.com/sajilokaam/docpipe/internal/config"
	"github.com/sajilokaam/docpipe/internal/extraction"
	"github.com/sajilokaam/docpipe/internal/infrastructure"
	"github.com/sajilokaam/docpipe/internal/pipeline"
	"github.com/sajilokaam/docpipe/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Extraction extraction.Config
	Pipeline   pipeline.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Extraction: cfg.Extraction,
		Pipeline:   cfg.Pipeline,
	}
}
