package api

import (
	"github.com/sajilokaam/docpipe/internal/extraction"
	"github.com/sajilokaam/docpipe/internal/pipeline"
	"github.com/sajilokaam/docpipe/internal/projects"
	"github.com/sajilokaam/docpipe/internal/runs"
	"github.com/sajilokaam/docpipe/internal/suggestions"
	"github.com/sajilokaam/docpipe/internal/tasks"
	"github.com/sajilokaam/docpipe/pkg/extract"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Projects    projects.System
	Tasks       tasks.System
	Runs        runs.System
	Suggestions suggestions.System
	Pipeline    pipeline.System
}

// NewDomain creates all domain systems from the API runtime. The pipeline
// system composes the others with the text extractor and candidate engine.
func NewDomain(runtime *Runtime) *Domain {
	projectSys := projects.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	taskSys := tasks.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	runSys := runs.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	suggestionSys := suggestions.New(
		runtime.Database.Connection(),
		runSys,
		taskSys,
		runtime.Logger,
	)

	extractor := extract.New(
		extract.NewTesseract(runtime.Pipeline.OCRLanguage),
		runtime.Logger,
	)
	engine := extraction.NewEngine(&runtime.Extraction, runtime.Logger)

	pipelineSys := pipeline.New(
		runSys,
		suggestionSys,
		projectSys,
		runtime.Storage,
		extractor,
		engine,
		runtime.Logger,
		&runtime.Pipeline,
	)

	return &Domain{
		Projects:    projectSys,
		Tasks:       taskSys,
		Runs:        runSys,
		Suggestions: suggestionSys,
		Pipeline:    pipelineSys,
	}
}
