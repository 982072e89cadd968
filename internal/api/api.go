// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/sajilokaam/docpipe/internal/config"
	"github.com/sajilokaam/docpipe/internal/infrastructure"
	"github.com/sajilokaam/docpipe/pkg/middleware"
	"github.com/sajilokaam/docpipe/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The pipeline system is registered with the lifecycle coordinator so that
// in-flight runs drain before shutdown completes.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	if err := domain.Pipeline.Start(runtime.Lifecycle); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
