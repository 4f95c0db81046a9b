package pipeline

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"stempulse/internal/normalize"
	"stempulse/pkg/contracts/domain"
)

// AggregateInvestment folds the raw investment rows into one row per
// canonical key holding the arithmetic mean of all rows that normalized to
// that key. Output is sorted by key for stable display and export.
func AggregateInvestment(n *normalize.Normalizer, records []domain.InvestmentRecord) []domain.CountryAggregate {
	values := make(map[string][]float64)
	for _, r := range records {
		key := n.Canonical(r.Country)
		if key == "" {
			continue
		}
		values[key] = append(values[key], r.Investment)
	}

	aggregates := make([]domain.CountryAggregate, 0, len(values))
	for key, v := range values {
		aggregates = append(aggregates, domain.CountryAggregate{
			Key:        key,
			Investment: stat.Mean(v, nil),
			SourceRows: len(v),
		})
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Key < aggregates[j].Key
	})

	return aggregates
}

// GDPMeans computes the row-wise mean across the year columns for each
// country, skipping missing cells. A row with no present cells contributes
// nothing. On duplicate keys the last row read wins, mirroring the
// indicator policy.
func GDPMeans(n *normalize.Normalizer, records []domain.GDPRecord) map[string]float64 {
	means := make(map[string]float64, len(records))
	for _, r := range records {
		key := n.Canonical(r.Country)
		if key == "" || len(r.YearValues) == 0 {
			continue
		}

		var sum float64
		var count int
		for _, v := range r.YearValues {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			continue
		}
		means[key] = sum / float64(count)
	}
	return means
}

// IndicatorsByKey indexes the indicator rows by canonical key. On duplicate
// keys the last row read wins as the representative value.
func IndicatorsByKey(n *normalize.Normalizer, records []domain.IndicatorRecord) map[string]domain.IndicatorRecord {
	byKey := make(map[string]domain.IndicatorRecord, len(records))
	for _, r := range records {
		key := n.Canonical(r.Country)
		if key == "" {
			continue
		}
		byKey[key] = r
	}
	return byKey
}
