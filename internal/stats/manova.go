package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"stempulse/pkg/contracts/domain"
)

// TwoGroupMANOVA tests whether the indicator vector differs between the
// high- and low-investment groups, jointly across all indicators.
//
// With two groups the multivariate test reduces to Hotelling's T-squared,
// which has an exact F transform: F = (n1+n2-p-1) / (p*(n1+n2-2)) * T²
// with p and n1+n2-p-1 degrees of freedom. Rows must be complete cases of
// length len(indicators).
func TwoGroupMANOVA(indicators []domain.Indicator, high, low [][]float64, alpha float64) (*domain.MANOVAResult, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}

	p := len(indicators)
	if p == 0 {
		return nil, fmt.Errorf("%w: no indicators to test jointly", ErrInsufficientData)
	}
	n1, n2 := len(high), len(low)
	if n1 < 2 || n2 < 2 {
		return nil, fmt.Errorf("%w: joint test needs at least 2 complete rows per group, have %d high / %d low",
			ErrInsufficientData, n1, n2)
	}
	df2 := float64(n1 + n2 - p - 1)
	if df2 < 1 {
		return nil, fmt.Errorf("%w: joint test across %d indicators needs at least %d complete rows, have %d",
			ErrInsufficientData, p, p+2, n1+n2)
	}

	mean1 := colMeans(high, p)
	mean2 := colMeans(low, p)

	// Pooled within-group covariance.
	pooled := mat.NewSymDense(p, nil)
	accumulateScatter(pooled, high, mean1)
	accumulateScatter(pooled, low, mean2)
	pooled.ScaleSym(1/float64(n1+n2-2), pooled)

	diff := mat.NewVecDense(p, nil)
	for i := 0; i < p; i++ {
		diff.SetVec(i, mean1[i]-mean2[i])
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(pooled); !ok {
		return nil, fmt.Errorf("%w: pooled covariance across %d indicators is singular",
			ErrInsufficientData, p)
	}

	solved := mat.NewVecDense(p, nil)
	if err := chol.SolveVecTo(solved, diff); err != nil {
		return nil, fmt.Errorf("solve pooled covariance system: %w", err)
	}

	t2 := float64(n1) * float64(n2) / float64(n1+n2) * mat.Dot(diff, solved)
	df1 := float64(p)
	f := df2 / (df1 * float64(n1+n2-2)) * t2

	fdist := distuv.F{D1: df1, D2: df2}
	pValue := 1 - fdist.CDF(f)
	if math.IsNaN(pValue) {
		return nil, fmt.Errorf("%w: joint test statistic is undefined", ErrInsufficientData)
	}

	return &domain.MANOVAResult{
		Indicators:  append([]domain.Indicator(nil), indicators...),
		N:           n1 + n2,
		TSquared:    t2,
		F:           f,
		DF1:         df1,
		DF2:         df2,
		PValue:      pValue,
		Significant: pValue < alpha,
	}, nil
}

func colMeans(rows [][]float64, p int) []float64 {
	means := make([]float64, p)
	for _, row := range rows {
		for j := 0; j < p; j++ {
			means[j] += row[j]
		}
	}
	for j := range means {
		means[j] /= float64(len(rows))
	}
	return means
}

// accumulateScatter adds the scatter matrix of rows about mean into dst.
func accumulateScatter(dst *mat.SymDense, rows [][]float64, mean []float64) {
	p := len(mean)
	for _, row := range rows {
		for i := 0; i < p; i++ {
			for j := i; j < p; j++ {
				dst.SetSym(i, j, dst.At(i, j)+(row[i]-mean[i])*(row[j]-mean[j]))
			}
		}
	}
}
