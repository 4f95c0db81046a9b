package pipeline

import (
	"errors"
	"fmt"
	"time"

	"stempulse/internal/stats"
	"stempulse/pkg/contracts/domain"
)

// BuildAnalysis runs the full statistical step over an overview table:
// per-indicator OLS and group comparison, plus the joint test across all
// indicators. Indicators without enough complete pairs are short-circuited
// with an explicit message instead of a fabricated result; only unexpected
// errors propagate.
func BuildAnalysis(rows []domain.OverviewRow, alpha float64) (*domain.AnalysisReport, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = stats.DefaultAlpha
	}

	report := &domain.AnalysisReport{
		GeneratedAt: time.Now(),
		Countries:   len(rows),
		Alpha:       alpha,
	}

	for _, indicator := range domain.AllIndicators() {
		analysis, err := analyzeIndicator(rows, indicator, alpha)
		if err != nil {
			return nil, err
		}
		report.Indicators = append(report.Indicators, analysis)
	}

	indicators := domain.AllIndicators()
	xs, cases := CompleteCases(rows, indicators)
	high, low := splitCases(xs, cases)
	manova, err := stats.TwoGroupMANOVA(indicators, high, low, alpha)
	switch {
	case errors.Is(err, stats.ErrInsufficientData):
		report.MANOVAMessage = err.Error()
	case err != nil:
		return nil, fmt.Errorf("joint indicator test: %w", err)
	default:
		report.MANOVA = manova
	}

	return report, nil
}

// AnalyzeIndicator runs the statistical step for a single indicator.
func AnalyzeIndicator(rows []domain.OverviewRow, indicator domain.Indicator, alpha float64) (domain.IndicatorAnalysis, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = stats.DefaultAlpha
	}
	return analyzeIndicator(rows, indicator, alpha)
}

func analyzeIndicator(rows []domain.OverviewRow, indicator domain.Indicator, alpha float64) (domain.IndicatorAnalysis, error) {
	pairs := CompletePairs(rows, indicator)
	analysis := domain.IndicatorAnalysis{
		Indicator: indicator,
		Pairs:     len(pairs),
	}

	regression, err := stats.Regress(indicator, pairs, alpha)
	switch {
	case errors.Is(err, stats.ErrInsufficientData):
		analysis.InsufficientData = true
		analysis.Message = err.Error()
		return analysis, nil
	case err != nil:
		return analysis, fmt.Errorf("regress %s: %w", indicator, err)
	}
	analysis.Regression = regression

	high, low := stats.SplitHighLow(pairs)
	ttest, err := stats.WelchTTest(indicator, high, low, alpha)
	switch {
	case errors.Is(err, stats.ErrInsufficientData):
		// The regression stands on its own; only the group comparison is
		// marked unavailable.
		if analysis.Message == "" {
			analysis.Message = err.Error()
		}
	case err != nil:
		return analysis, fmt.Errorf("group comparison %s: %w", indicator, err)
	default:
		analysis.TTest = ttest
	}

	return analysis, nil
}

// splitCases divides complete multivariate cases into high- and
// low-investment groups at the median investment, matching SplitHighLow.
func splitCases(xs []float64, cases [][]float64) (high, low [][]float64) {
	if len(xs) == 0 {
		return nil, nil
	}

	pairs := make([]domain.ObservationPair, len(xs))
	for i, x := range xs {
		pairs[i] = domain.ObservationPair{X: x, Y: float64(i)}
	}
	highIdx, lowIdx := stats.SplitHighLow(pairs)

	for _, i := range highIdx {
		high = append(high, cases[int(i)])
	}
	for _, i := range lowIdx {
		low = append(low, cases[int(i)])
	}
	return high, low
}
