package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stempulse/internal/dataset"
	"stempulse/internal/normalize"
	"stempulse/pkg/contracts/domain"
)

// InputPaths names the three input files of one run.
type InputPaths struct {
	Investment string
	GDP        string
	Indicators string
}

// Result is the immutable output of one pipeline run. It is built once per
// cache generation and never mutated afterwards.
type Result struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Fingerprint string                    `json:"fingerprint"`
	Aggregates  []domain.CountryAggregate `json:"aggregates"`
	Overview    []domain.OverviewRow      `json:"overview"`
}

// Countries returns the canonical keys of the overview in display order.
func (r *Result) Countries() []string {
	keys := make([]string, len(r.Overview))
	for i, row := range r.Overview {
		keys[i] = row.Country
	}
	return keys
}

// Pipeline wires the loader and normalizer into the full
// load-normalize-aggregate-join sequence.
type Pipeline struct {
	loader     *dataset.Loader
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// New creates a pipeline. A nil normalizer uses the default rule table.
func New(loader *dataset.Loader, normalizer *normalize.Normalizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if normalizer == nil {
		normalizer = normalize.New(nil)
	}
	if loader == nil {
		loader = dataset.NewLoader(logger)
	}
	return &Pipeline{loader: loader, normalizer: normalizer, logger: logger}
}

// Normalizer exposes the rule table used for canonical keys, so callers
// can normalize filter input consistently.
func (p *Pipeline) Normalizer() *normalize.Normalizer {
	return p.normalizer
}

// Run executes one full pipeline pass over the given inputs.
func (p *Pipeline) Run(ctx context.Context, paths InputPaths) (*Result, error) {
	started := time.Now()

	investment, err := p.loader.LoadInvestment(ctx, paths.Investment)
	if err != nil {
		return nil, fmt.Errorf("load investment table: %w", err)
	}
	gdp, err := p.loader.LoadGDP(ctx, paths.GDP)
	if err != nil {
		return nil, fmt.Errorf("load GDP table: %w", err)
	}
	indicators, err := p.loader.LoadIndicators(ctx, paths.Indicators)
	if err != nil {
		return nil, fmt.Errorf("load indicators table: %w", err)
	}

	aggregates := AggregateInvestment(p.normalizer, investment)
	overview := LeftJoin(aggregates, GDPMeans(p.normalizer, gdp), IndicatorsByKey(p.normalizer, indicators))

	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("investment_rows", len(investment)),
		slog.Int("countries", len(aggregates)),
		slog.Duration("elapsed", time.Since(started)))

	return &Result{
		GeneratedAt: time.Now(),
		Aggregates:  aggregates,
		Overview:    overview,
	}, nil
}
