package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempulse/internal/normalize"
	"stempulse/pkg/contracts/domain"
)

func TestAggregateInvestmentMergesAliases(t *testing.T) {
	n := normalize.New(nil)

	records := []domain.InvestmentRecord{
		{Country: "Republic of Korea", Year: 2021, Investment: 100},
		{Country: "South Korea", Year: 2022, Investment: 200},
		{Country: "Germany", Year: 2021, Investment: 50},
	}

	aggregates := AggregateInvestment(n, records)
	require.Len(t, aggregates, 2)

	// Sorted by key: germany before southkorea.
	assert.Equal(t, "germany", aggregates[0].Key)
	assert.InDelta(t, 50, aggregates[0].Investment, 1e-12)

	korea := aggregates[1]
	assert.Equal(t, "southkorea", korea.Key)
	assert.Equal(t, 2, korea.SourceRows)
	assert.InDelta(t, 150, korea.Investment, 1e-12, "both alias spellings averaged together")
}

func TestAggregateInvestmentOneRowPerKey(t *testing.T) {
	n := normalize.New(nil)

	records := []domain.InvestmentRecord{
		{Country: "France", Year: 2019, Investment: 10},
		{Country: "France", Year: 2020, Investment: 20},
		{Country: "France", Year: 2021, Investment: 30},
	}

	aggregates := AggregateInvestment(n, records)
	require.Len(t, aggregates, 1)
	assert.InDelta(t, 20, aggregates[0].Investment, 1e-12)
	assert.Equal(t, 3, aggregates[0].SourceRows)
}

func TestGDPMeansSkipsMissingCells(t *testing.T) {
	n := normalize.New(nil)

	records := []domain.GDPRecord{
		{
			Country: "Germany",
			YearValues: map[int]float64{
				2017: 100,
				2019: 120,
				2020: 110,
				2022: 130,
			},
		},
		{Country: "Atlantis", YearValues: map[int]float64{}},
	}

	means := GDPMeans(n, records)
	require.Len(t, means, 1)
	assert.InDelta(t, 115, means["germany"], 1e-12, "(100+120+110+130)/4 with missing cells excluded")
}

func TestIndicatorsByKeyLastWins(t *testing.T) {
	n := normalize.New(nil)

	records := []domain.IndicatorRecord{
		{Country: "Republic of Korea", InterestRate: 1.0},
		{Country: "South Korea", InterestRate: 2.0},
	}

	byKey := IndicatorsByKey(n, records)
	require.Len(t, byKey, 1)
	assert.InDelta(t, 2.0, byKey["southkorea"].InterestRate, 1e-12)
}
