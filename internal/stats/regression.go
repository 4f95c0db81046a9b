package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"stempulse/pkg/contracts/domain"
)

// ErrInsufficientData marks a statistic that cannot be computed from the
// rows that survived joining. Callers check it with errors.Is and surface
// an explicit "not enough data" condition instead of a numeric result.
var ErrInsufficientData = errors.New("insufficient data")

// DefaultAlpha is the significance threshold used when none is configured.
const DefaultAlpha = 0.05

// Regress fits a simple linear regression of the indicator on investment
// and reports slope, intercept, fit quality and a two-sided p-value for the
// slope.
//
// At least two complete pairs with spread in the investment values are
// required. With exactly two pairs the line is determined exactly, so no
// significance test exists and the p-value is NaN with Significant false.
func Regress(indicator domain.Indicator, pairs []domain.ObservationPair, alpha float64) (*domain.RegressionResult, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}
	n := len(pairs)
	if n < 2 {
		return nil, fmt.Errorf("%w: %s regression needs at least 2 complete pairs, have %d",
			ErrInsufficientData, indicator, n)
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range pairs {
		xs[i] = p.X
		ys[i] = p.Y
	}

	xbar := stat.Mean(xs, nil)
	var sxx float64
	for _, x := range xs {
		sxx += (x - xbar) * (x - xbar)
	}
	if sxx == 0 {
		return nil, fmt.Errorf("%w: %s regression has no spread in investment values",
			ErrInsufficientData, indicator)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	rsq := stat.RSquared(xs, ys, nil, intercept, slope)

	result := &domain.RegressionResult{
		Indicator: indicator,
		N:         n,
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rsq,
		Positive:  slope > 0,
		PValue:    math.NaN(),
	}

	if n < 3 {
		return result, nil
	}

	var sse float64
	for i := range xs {
		resid := ys[i] - (intercept + slope*xs[i])
		sse += resid * resid
	}

	df := float64(n - 2)
	se := math.Sqrt(sse/df) / math.Sqrt(sxx)
	if se == 0 {
		// Perfect fit: the slope is exact.
		result.PValue = 0
		result.Significant = true
		return result, nil
	}

	t := slope / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	result.PValue = 2 * dist.CDF(-math.Abs(t))
	result.Significant = result.PValue < alpha

	return result, nil
}
