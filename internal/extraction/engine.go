package extraction

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Remote is the contract the engine requires from the remote strategy.
type Remote interface {
	Available(ctx context.Context) bool
	Extract(ctx context.Context, text string) ([]Candidate, error)
}

// Engine orchestrates candidate generation: remote service first, local
// rule-based strategies as fallback, deduplication and ranking last.
type Engine struct {
	remote     Remote
	strategies []Strategy
	threshold  float64
	logger     *slog.Logger
}

// NewEngine creates an Engine from configuration. The remote strategy is
// disabled when no base URL is configured.
func NewEngine(cfg *Config, logger *slog.Logger) *Engine {
	var remote Remote
	if cfg.Remote.BaseURL != "" {
		remote = NewRemoteClient(cfg.Remote, logger)
	}

	return &Engine{
		remote:     remote,
		strategies: LocalStrategies(),
		threshold:  cfg.SimilarityThreshold,
		logger:     logger.With("system", "extraction"),
	}
}

// Generate produces the deduplicated, ranked candidate list for the text.
// Remote failures fall back to the local strategies and are never
// propagated; Generate only returns an empty list for empty text.
func (e *Engine) Generate(ctx context.Context, text string) []Candidate {
	if strings.TrimSpace(text) == "" {
		return []Candidate{}
	}

	if e.remote != nil && e.remote.Available(ctx) {
		candidates, err := e.remote.Extract(ctx, text)
		switch {
		case err != nil:
			e.logger.Warn("remote extraction failed, using local strategies", "error", err)
		case len(candidates) == 0:
			e.logger.Info("remote extraction returned no candidates, using local strategies")
		default:
			return DedupeAndRank(candidates, e.threshold)
		}
	}

	return DedupeAndRank(e.generateLocal(text), e.threshold)
}

// generateLocal runs the rule-based strategies concurrently, concatenating
// results in strategy order so deduplication stays deterministic.
func (e *Engine) generateLocal(text string) []Candidate {
	results := make([][]Candidate, len(e.strategies))

	var g errgroup.Group
	for i, strategy := range e.strategies {
		g.Go(func() error {
			results[i] = strategy.Generate(text)
			return nil
		})
	}
	_ = g.Wait()

	var all []Candidate
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}
