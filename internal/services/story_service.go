package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"stempulse/internal/config"
	apierrors "stempulse/internal/errors"
	"stempulse/internal/exporter"
	"stempulse/internal/pipeline"
	"stempulse/pkg/contracts/domain"
)

// StoryService serves the investment data story: the country overview,
// the statistical analysis, and the exported reports. All reads go
// through the pipeline cache, so repeated requests against unchanged
// inputs never recompute.
type StoryService struct {
	cache    *pipeline.Cache
	writer   *exporter.Writer
	analysis config.AnalysisConfig
	validate *validator.Validate
	logger   *slog.Logger
}

// NewStoryService creates the story service.
func NewStoryService(cache *pipeline.Cache, writer *exporter.Writer, analysis config.AnalysisConfig, logger *slog.Logger) *StoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryService{
		cache:    cache,
		writer:   writer,
		analysis: analysis,
		validate: validator.New(),
		logger:   logger.With(slog.String("service", "story")),
	}
}

// Countries returns the display names of every country in the joined
// overview, sorted.
func (s *StoryService) Countries(ctx context.Context) ([]string, error) {
	result, err := s.cache.Get(ctx)
	if err != nil {
		return nil, apierrors.ErrDataset(err)
	}
	return result.Countries(), nil
}

// Overview returns the joined per-country table, optionally filtered to
// the requested countries. Selections are matched by canonical name, so
// "Republic of Korea" and "South Korea" select the same row.
func (s *StoryService) Overview(ctx context.Context, countries []string) ([]domain.OverviewRow, error) {
	result, err := s.cache.Get(ctx)
	if err != nil {
		return nil, apierrors.ErrDataset(err)
	}
	return pipeline.FilterRows(s.cache.Pipeline().Normalizer(), result.Overview, countries), nil
}

// Analysis runs the full statistical report over the (optionally
// filtered) overview table.
func (s *StoryService) Analysis(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	rows, err := s.Overview(ctx, req.Countries)
	if err != nil {
		return nil, err
	}

	report, err := pipeline.BuildAnalysis(rows, s.analysis.Alpha)
	if err != nil {
		return nil, fmt.Errorf("build analysis: %w", err)
	}

	s.logger.InfoContext(ctx, "analysis computed",
		slog.Int("countries", report.Countries),
		slog.Float64("alpha", report.Alpha))
	return report, nil
}

// IndicatorAnalysis runs the regression and group comparison for one
// indicator. Insufficient data is an API error rather than a soft
// message here: the caller asked for this specific statistic.
func (s *StoryService) IndicatorAnalysis(ctx context.Context, indicator string, countries []string) (*domain.IndicatorAnalysis, error) {
	req := domain.AnalysisRequest{Countries: countries, Indicator: indicator}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	ind := domain.Indicator(indicator)
	if !ind.Valid() {
		return nil, apierrors.ErrValidation("indicator", fmt.Sprintf("unknown indicator %q", indicator))
	}

	rows, err := s.Overview(ctx, countries)
	if err != nil {
		return nil, err
	}

	analysis, err := pipeline.AnalyzeIndicator(rows, ind, s.analysis.Alpha)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ind, err)
	}
	if analysis.InsufficientData {
		return nil, apierrors.ErrInsufficientData(analysis.Message)
	}
	return &analysis, nil
}

// WriteCombinedCSV streams the joined table as CSV, filtered to the
// requested countries.
func (s *StoryService) WriteCombinedCSV(ctx context.Context, w io.Writer, countries []string) error {
	rows, err := s.Overview(ctx, countries)
	if err != nil {
		return err
	}
	return exporter.WriteOverviewCSV(w, rows)
}

// WriteSummary streams the executive summary, filtered to the requested
// countries.
func (s *StoryService) WriteSummary(ctx context.Context, w io.Writer, countries []string) error {
	rows, err := s.Overview(ctx, countries)
	if err != nil {
		return err
	}
	report, err := pipeline.BuildAnalysis(rows, s.analysis.Alpha)
	if err != nil {
		return fmt.Errorf("build analysis: %w", err)
	}
	return exporter.WriteSummary(w, rows, report, s.summaryOptions())
}

// ExportReports writes both report files to the reports directory and
// returns their paths. Used by the CLI and by the export endpoint.
func (s *StoryService) ExportReports(ctx context.Context, countries []string) (csvPath, summaryPath string, err error) {
	rows, err := s.Overview(ctx, countries)
	if err != nil {
		return "", "", err
	}

	csvPath, err = s.writer.WriteCombinedCSV(rows)
	if err != nil {
		return "", "", err
	}

	report, err := pipeline.BuildAnalysis(rows, s.analysis.Alpha)
	if err != nil {
		return "", "", fmt.Errorf("build analysis: %w", err)
	}
	summaryPath, err = s.writer.WriteExecutiveSummary(rows, report, s.summaryOptions())
	if err != nil {
		return "", "", err
	}
	return csvPath, summaryPath, nil
}

// Refresh forces a cache check and returns the current result. The
// pipeline only recomputes when the input files changed.
func (s *StoryService) Refresh(ctx context.Context) (*pipeline.Result, error) {
	result, err := s.cache.Get(ctx)
	if err != nil {
		return nil, apierrors.ErrDataset(err)
	}
	return result, nil
}

// Cached returns the current result without triggering a load, or nil
// when the cache is cold.
func (s *StoryService) Cached() *pipeline.Result {
	return s.cache.Cached()
}

func (s *StoryService) summaryOptions() exporter.SummaryOptions {
	opts := exporter.DefaultSummaryOptions()
	if s.analysis.SummaryTitle != "" {
		opts.Title = s.analysis.SummaryTitle
	}
	if s.analysis.NullHypothesis != "" {
		opts.NullHypothesis = s.analysis.NullHypothesis
	}
	if s.analysis.AltHypothesis != "" {
		opts.AltHypothesis = s.analysis.AltHypothesis
	}
	if s.analysis.SignificantText != "" {
		opts.SignificantText = s.analysis.SignificantText
	}
	if s.analysis.NoEffectText != "" {
		opts.NoEffectText = s.analysis.NoEffectText
	}
	return opts
}

// validationError maps a validator failure onto the API error taxonomy,
// naming the first offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return apierrors.ErrValidation(first.Field(), fmt.Sprintf("failed %q validation", first.Tag()))
	}
	return apierrors.ErrValidationFailed
}
