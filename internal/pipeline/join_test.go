package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempulse/internal/normalize"
	"stempulse/pkg/contracts/domain"
)

func testAggregates() []domain.CountryAggregate {
	return []domain.CountryAggregate{
		{Key: "france", Investment: 10, SourceRows: 1},
		{Key: "germany", Investment: 20, SourceRows: 1},
		{Key: "southkorea", Investment: 30, SourceRows: 2},
	}
}

func TestLeftJoinKeepsEveryInvestmentRow(t *testing.T) {
	gdp := map[string]float64{"germany": 115}
	indicators := map[string]domain.IndicatorRecord{
		"germany":    {Country: "Germany", InterestRate: 3.5, InflationRate: 2.1, StockIndex: 15000},
		"southkorea": {Country: "South Korea", InterestRate: 2.5, InflationRate: math.NaN(), StockIndex: 2600},
	}

	rows := LeftJoin(testAggregates(), gdp, indicators)

	// Row count equals the aggregated investment table's row count, no
	// matter how many indicator rows matched.
	require.Len(t, rows, 3)

	france := rows[0]
	assert.Nil(t, france.GDPMean)
	assert.Nil(t, france.InterestRate)

	germany := rows[1]
	require.NotNil(t, germany.GDPMean)
	assert.InDelta(t, 115, *germany.GDPMean, 1e-12)

	korea := rows[2]
	require.NotNil(t, korea.InterestRate)
	assert.Nil(t, korea.InflationRate, "NaN indicator cell joins as no value")
}

func TestCompletePairsDropsMissing(t *testing.T) {
	gdp := map[string]float64{"germany": 115}
	indicators := map[string]domain.IndicatorRecord{
		"germany":    {InterestRate: 3.5, InflationRate: 2.1, StockIndex: 15000},
		"southkorea": {InterestRate: 2.5, InflationRate: math.NaN(), StockIndex: 2600},
	}
	rows := LeftJoin(testAggregates(), gdp, indicators)

	interest := CompletePairs(rows, domain.IndicatorInterest)
	inflation := CompletePairs(rows, domain.IndicatorInflation)
	gdpPairs := CompletePairs(rows, domain.IndicatorGDP)

	assert.Len(t, interest, 2)
	assert.Len(t, inflation, 1, "NaN cell dropped")
	assert.Len(t, gdpPairs, 1)

	// Inner-join-then-drop is never larger than the left join.
	for _, pairs := range [][]domain.ObservationPair{interest, inflation, gdpPairs} {
		assert.LessOrEqual(t, len(pairs), len(rows))
	}

	assert.Equal(t, "germany", inflation[0].Country)
	assert.InDelta(t, 20, inflation[0].X, 1e-12)
	assert.InDelta(t, 2.1, inflation[0].Y, 1e-12)
}

func TestCompleteCases(t *testing.T) {
	gdp := map[string]float64{"germany": 115, "france": 90}
	indicators := map[string]domain.IndicatorRecord{
		"germany": {InterestRate: 3.5, InflationRate: 2.1, StockIndex: 15000},
		"france":  {InterestRate: 3.0, InflationRate: math.NaN(), StockIndex: 7200},
	}
	rows := LeftJoin(testAggregates(), gdp, indicators)

	xs, cases := CompleteCases(rows, domain.AllIndicators())
	require.Len(t, cases, 1, "only germany has every column present")
	assert.InDelta(t, 20, xs[0], 1e-12)
	assert.Equal(t, []float64{115, 3.5, 2.1, 15000}, cases[0])
}

func TestFilterRows(t *testing.T) {
	n := normalize.New(nil)
	rows := LeftJoin(testAggregates(), nil, nil)

	assert.Len(t, FilterRows(n, rows, nil), 3, "empty selection means no filter")

	filtered := FilterRows(n, rows, []string{"Republic of Korea", "Germany"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "germany", filtered[0].Country)
	assert.Equal(t, "southkorea", filtered[1].Country)

	assert.Empty(t, FilterRows(n, rows, []string{"Atlantis"}))
}
