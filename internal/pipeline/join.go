package pipeline

import (
	"math"

	"stempulse/internal/normalize"
	"stempulse/pkg/contracts/domain"
)

// LeftJoin combines the aggregated investment table with the GDP means and
// the indicator table. Every investment row is kept; columns with no match
// stay nil. The output row count always equals len(aggregates), which the
// overview table relies on.
func LeftJoin(aggregates []domain.CountryAggregate, gdp map[string]float64, indicators map[string]domain.IndicatorRecord) []domain.OverviewRow {
	rows := make([]domain.OverviewRow, 0, len(aggregates))
	for _, agg := range aggregates {
		row := domain.OverviewRow{
			Country:    agg.Key,
			Investment: agg.Investment,
		}
		if v, ok := gdp[agg.Key]; ok {
			row.GDPMean = ptr(v)
		}
		if ind, ok := indicators[agg.Key]; ok {
			row.InterestRate = optional(ind.InterestRate)
			row.InflationRate = optional(ind.InflationRate)
			row.StockIndex = optional(ind.StockIndex)
		}
		rows = append(rows, row)
	}
	return rows
}

// CompletePairs applies the inner-join policy for one indicator: only rows
// with present values in both investment and the target column survive.
// The statistical step requires complete pairs, so this is distinct from
// LeftJoin; its row count is at most the left-join count.
func CompletePairs(rows []domain.OverviewRow, indicator domain.Indicator) []domain.ObservationPair {
	pairs := make([]domain.ObservationPair, 0, len(rows))
	for _, row := range rows {
		y := indicatorValue(row, indicator)
		if y == nil {
			continue
		}
		pairs = append(pairs, domain.ObservationPair{
			Country: row.Country,
			X:       row.Investment,
			Y:       *y,
		})
	}
	return pairs
}

// CompleteCases keeps only rows with every indicator present and returns
// the investment values alongside the indicator matrix, one row per
// country, columns ordered as indicators.
func CompleteCases(rows []domain.OverviewRow, indicators []domain.Indicator) (xs []float64, cases [][]float64) {
	for _, row := range rows {
		c := make([]float64, 0, len(indicators))
		complete := true
		for _, ind := range indicators {
			v := indicatorValue(row, ind)
			if v == nil {
				complete = false
				break
			}
			c = append(c, *v)
		}
		if !complete {
			continue
		}
		xs = append(xs, row.Investment)
		cases = append(cases, c)
	}
	return xs, cases
}

// FilterRows restricts overview rows to the selected countries. Selections
// are normalized before matching so raw spellings work too; an empty
// selection means no filter.
func FilterRows(n *normalize.Normalizer, rows []domain.OverviewRow, countries []string) []domain.OverviewRow {
	if len(countries) == 0 {
		return rows
	}

	wanted := make(map[string]bool, len(countries))
	for _, c := range countries {
		if key := n.Canonical(c); key != "" {
			wanted[key] = true
		}
	}

	filtered := make([]domain.OverviewRow, 0, len(rows))
	for _, row := range rows {
		if wanted[row.Country] {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func indicatorValue(row domain.OverviewRow, indicator domain.Indicator) *float64 {
	switch indicator {
	case domain.IndicatorGDP:
		return row.GDPMean
	case domain.IndicatorInterest:
		return row.InterestRate
	case domain.IndicatorInflation:
		return row.InflationRate
	case domain.IndicatorStock:
		return row.StockIndex
	}
	return nil
}

func ptr(v float64) *float64 { return &v }

// optional converts a NaN-as-missing value into a nullable one.
func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
