package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempulse/internal/config"
	"stempulse/internal/dataset"
	apierrors "stempulse/internal/errors"
	"stempulse/internal/exporter"
	"stempulse/internal/pipeline"
	"stempulse/pkg/contracts/domain"
)

// writeFixture writes small but statistically usable input tables:
// investment and every indicator trend upward together across countries.
func writeFixture(t *testing.T, dir string, countries int) pipeline.InputPaths {
	t.Helper()

	paths := pipeline.InputPaths{
		Investment: filepath.Join(dir, "investment.csv"),
		GDP:        filepath.Join(dir, "gdp.csv"),
		Indicators: filepath.Join(dir, "indicators.csv"),
	}

	var inv, gdp, ind strings.Builder
	inv.WriteString("Country,Year,GBARD\n")
	gdp.WriteString("Country,2017,2018,2019,2020,2021,2022\n")
	ind.WriteString("Country,InterestRate,InflationRate,StockIndex\n")

	// The modulus terms keep the indicators from being exact linear
	// functions of each other, which would make the pooled covariance
	// singular in the joint test.
	for i := 0; i < countries; i++ {
		name := fmt.Sprintf("Country%02d", i)
		fmt.Fprintf(&inv, "%s,2021,%d\n", name, 100+10*i)
		fmt.Fprintf(&inv, "%s,2022,%d\n", name, 110+10*i)
		fmt.Fprintf(&gdp, "%s,%d,%d,%d,%d,%d,%d\n", name,
			1000+50*i, 1010+50*i+5*(i%4), 1020+50*i, 1030+50*i, 1040+50*i, 1050+50*i)
		fmt.Fprintf(&ind, "%s,%.2f,%.2f,%d\n", name,
			1.0+0.3*float64(i)+0.05*float64(i%3),
			2.0+0.2*float64(i)+0.07*float64(i%5),
			5000+200*i+13*(i%7))
	}

	require.NoError(t, os.WriteFile(paths.Investment, []byte(inv.String()), 0644))
	require.NoError(t, os.WriteFile(paths.GDP, []byte(gdp.String()), 0644))
	require.NoError(t, os.WriteFile(paths.Indicators, []byte(ind.String()), 0644))
	return paths
}

func newTestService(t *testing.T, countries int) *StoryService {
	t.Helper()
	dir := t.TempDir()
	paths := writeFixture(t, dir, countries)

	p := pipeline.New(dataset.NewLoader(nil), nil, nil)
	cache := pipeline.NewCache(p, paths, nil)
	writer := exporter.NewWriter(filepath.Join(dir, "reports"), nil)
	return NewStoryService(cache, writer, config.AnalysisConfig{Alpha: 0.05}, nil)
}

func TestCountriesSorted(t *testing.T) {
	svc := newTestService(t, 4)

	countries, err := svc.Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"country00", "country01", "country02", "country03"}, countries)
}

func TestOverviewFilterByCanonicalName(t *testing.T) {
	svc := newTestService(t, 4)

	rows, err := svc.Overview(context.Background(), []string{"Country01", "COUNTRY03"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "country01", rows[0].Country)
	assert.Equal(t, "country03", rows[1].Country)
}

func TestAnalysisFullReport(t *testing.T) {
	svc := newTestService(t, 16)

	report, err := svc.Analysis(context.Background(), domain.AnalysisRequest{})
	require.NoError(t, err)

	assert.Equal(t, 16, report.Countries)
	require.Len(t, report.Indicators, len(domain.AllIndicators()))
	for _, analysis := range report.Indicators {
		assert.False(t, analysis.InsufficientData, "indicator %s", analysis.Indicator)
		require.NotNil(t, analysis.Regression)
		assert.True(t, analysis.Regression.Positive)
	}
	require.NotNil(t, report.MANOVA)
}

func TestAnalysisRejectsUnknownIndicator(t *testing.T) {
	svc := newTestService(t, 4)

	_, err := svc.Analysis(context.Background(), domain.AnalysisRequest{Indicator: "bogus"})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
}

func TestIndicatorAnalysisInsufficientDataIs422(t *testing.T) {
	svc := newTestService(t, 4)

	// One country leaves a single complete pair.
	_, err := svc.IndicatorAnalysis(context.Background(), "gdp", []string{"Country00"})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INSUFFICIENT_DATA", apiErr.ErrorCode)
	assert.Equal(t, 422, apiErr.StatusCode)
}

func TestIndicatorAnalysisRegression(t *testing.T) {
	svc := newTestService(t, 10)

	analysis, err := svc.IndicatorAnalysis(context.Background(), "interest", nil)
	require.NoError(t, err)
	require.NotNil(t, analysis.Regression)
	assert.Equal(t, 10, analysis.Pairs)
	assert.True(t, analysis.Regression.Positive)
}

func TestWriteCombinedCSVStream(t *testing.T) {
	svc := newTestService(t, 3)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCombinedCSV(context.Background(), &buf, nil))

	out := buf.String()
	assert.Contains(t, out, "Country,Investment")
	assert.Contains(t, out, "country02")
}

func TestExportReportsWritesBothFiles(t *testing.T) {
	svc := newTestService(t, 6)

	csvPath, summaryPath, err := svc.ExportReports(context.Background(), nil)
	require.NoError(t, err)
	assert.FileExists(t, csvPath)
	assert.FileExists(t, summaryPath)

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "STEM")
}

func TestDatasetErrorIsServiceUnavailable(t *testing.T) {
	dir := t.TempDir()
	paths := pipeline.InputPaths{
		Investment: filepath.Join(dir, "missing.csv"),
		GDP:        filepath.Join(dir, "missing.csv"),
		Indicators: filepath.Join(dir, "missing.csv"),
	}
	cache := pipeline.NewCache(pipeline.New(dataset.NewLoader(nil), nil, nil), paths, nil)
	svc := NewStoryService(cache, exporter.NewWriter(dir, nil), config.AnalysisConfig{Alpha: 0.05}, nil)

	_, err := svc.Countries(context.Background())
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INPUT_UNAVAILABLE", apiErr.ErrorCode)
}
