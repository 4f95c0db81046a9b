package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempulse/pkg/contracts/domain"
)

func ptr(v float64) *float64 { return &v }

func sampleRows() []domain.OverviewRow {
	return []domain.OverviewRow{
		{
			Country:       "germany",
			Investment:    150,
			GDPMean:       ptr(115),
			InterestRate:  ptr(3.5),
			InflationRate: ptr(2.1),
			StockIndex:    ptr(15000),
		},
		{
			Country:    "france",
			Investment: 50,
			// everything else missing
		},
	}
}

func TestWriteOverviewCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOverviewCSV(&buf, sampleRows()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "UTF-8 BOM expected")

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Country", "Investment", "GDPMean", "InterestRate", "InflationRate", "StockIndex"}, records[0])
	assert.Equal(t, []string{"germany", "150", "115", "3.5", "2.1", "15000"}, records[1])
	assert.Equal(t, []string{"france", "50", "", "", "", ""}, records[2], "missing values export as empty cells")
}

func TestWriteSummary(t *testing.T) {
	report := &domain.AnalysisReport{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Countries:   2,
		Alpha:       0.05,
		Indicators: []domain.IndicatorAnalysis{
			{
				Indicator: domain.IndicatorGDP,
				Pairs:     2,
				Regression: &domain.RegressionResult{
					Indicator:   domain.IndicatorGDP,
					N:           2,
					Slope:       1.5,
					Positive:    true,
					PValue:      0.01,
					Significant: true,
				},
			},
			{
				Indicator:        domain.IndicatorStock,
				InsufficientData: true,
				Message:          "insufficient data: stock regression needs at least 2 complete pairs, have 1",
			},
		},
		MANOVAMessage: "insufficient data: joint test needs at least 2 complete rows per group, have 1 high / 1 low",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleRows(), report, DefaultSummaryOptions()))
	out := buf.String()

	assert.Contains(t, out, "Significance level: 0.05")
	assert.Contains(t, out, "positive slope 1.5")
	assert.Contains(t, out, "null hypothesis is rejected")
	assert.Contains(t, out, "Not enough data")
	assert.Contains(t, out, "Joint test unavailable")
	assert.NotContains(t, out, "%!")
}

func TestWriteSummaryTwoPointFitHasNoNaN(t *testing.T) {
	report := &domain.AnalysisReport{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Countries:   2,
		Alpha:       0.05,
		Indicators: []domain.IndicatorAnalysis{
			{
				Indicator: domain.IndicatorGDP,
				Pairs:     2,
				Regression: &domain.RegressionResult{
					Indicator: domain.IndicatorGDP,
					N:         2,
					Slope:     1.5,
					Positive:  true,
					PValue:    math.NaN(),
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleRows(), report, DefaultSummaryOptions()))
	out := buf.String()

	assert.Contains(t, out, "no significance test possible with 2 points")
	assert.NotContains(t, out, "NaN")
}

func TestWriterWritesFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	report := &domain.AnalysisReport{
		GeneratedAt: time.Now(),
		Alpha:       0.05,
	}

	csvPath, err := w.WriteCombinedCSV(sampleRows())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(csvPath, CombinedCSVName))

	summaryPath, err := w.WriteExecutiveSummary(sampleRows(), report, SummaryOptions{})
	require.NoError(t, err)

	for _, path := range []string{csvPath, summaryPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}
