package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"stempulse/pkg/contracts/domain"
)

// SplitHighLow divides observation pairs into high- and low-investment
// groups at the median investment value, returning the indicator values of
// each group. Pairs exactly at the median fall into the low group.
func SplitHighLow(pairs []domain.ObservationPair) (high, low []float64) {
	if len(pairs) == 0 {
		return nil, nil
	}

	xs := make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i] = p.X
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.LinInterp, sorted, nil)

	for _, p := range pairs {
		if p.X > median {
			high = append(high, p.Y)
		} else {
			low = append(low, p.Y)
		}
	}
	return high, low
}

// WelchTTest compares the indicator between the high- and low-investment
// groups without assuming equal variances, using the Welch-Satterthwaite
// degrees of freedom.
func WelchTTest(indicator domain.Indicator, high, low []float64, alpha float64) (*domain.TTestResult, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}
	if len(high) < 2 || len(low) < 2 {
		return nil, fmt.Errorf("%w: %s group comparison needs at least 2 observations per group, have %d high / %d low",
			ErrInsufficientData, indicator, len(high), len(low))
	}

	n1 := float64(len(high))
	n2 := float64(len(low))
	m1 := stat.Mean(high, nil)
	m2 := stat.Mean(low, nil)
	v1 := stat.Variance(high, nil)
	v2 := stat.Variance(low, nil)

	seSq := v1/n1 + v2/n2
	if seSq == 0 {
		return nil, fmt.Errorf("%w: %s has zero variance in both investment groups",
			ErrInsufficientData, indicator)
	}

	t := (m1 - m2) / math.Sqrt(seSq)
	df := seSq * seSq / ((v1*v1)/(n1*n1*(n1-1)) + (v2*v2)/(n2*n2*(n2-1)))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))

	return &domain.TTestResult{
		Indicator:   indicator,
		HighN:       len(high),
		LowN:        len(low),
		HighMean:    m1,
		LowMean:     m2,
		T:           t,
		DF:          df,
		PValue:      p,
		Significant: p < alpha,
	}, nil
}
