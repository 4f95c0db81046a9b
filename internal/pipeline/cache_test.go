package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempulse/internal/dataset"
)

func writeInputs(t *testing.T, dir string) InputPaths {
	t.Helper()

	paths := InputPaths{
		Investment: filepath.Join(dir, "investment.csv"),
		GDP:        filepath.Join(dir, "gdp.csv"),
		Indicators: filepath.Join(dir, "indicators.csv"),
	}

	require.NoError(t, os.WriteFile(paths.Investment, []byte(
		"Country,Year,GBARD\n"+
			"Germany,2021,100\n"+
			"Germany,2022,200\n"+
			"France,2021,50\n"), 0644))
	require.NoError(t, os.WriteFile(paths.GDP, []byte(
		"Country,2017,2018,2019,2020,2021,2022\n"+
			"Germany,100,,120,110,,130\n"+
			"France,90,91,92,93,94,95\n"), 0644))
	require.NoError(t, os.WriteFile(paths.Indicators, []byte(
		"Country,InterestRate,InflationRate,StockIndex\n"+
			"Germany,3.5,2.1,15000\n"+
			"France,3.0,1.9,7200\n"), 0644))

	return paths
}

func newTestPipeline() *Pipeline {
	return New(dataset.NewLoader(nil), nil, nil)
}

func TestPipelineRun(t *testing.T) {
	paths := writeInputs(t, t.TempDir())

	result, err := newTestPipeline().Run(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, result.Overview, 2)
	assert.Equal(t, []string{"france", "germany"}, result.Countries())

	germany := result.Overview[1]
	assert.InDelta(t, 150, germany.Investment, 1e-12)
	require.NotNil(t, germany.GDPMean)
	assert.InDelta(t, 115, *germany.GDPMean, 1e-12)
}

func TestCacheReusesResultForUnchangedInputs(t *testing.T) {
	paths := writeInputs(t, t.TempDir())
	cache := NewCache(newTestPipeline(), paths, nil)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second, "unchanged inputs must not recompute")
	assert.NotEmpty(t, first.Fingerprint)
}

func TestCacheRecomputesWhenInputChanges(t *testing.T) {
	dir := t.TempDir()
	paths := writeInputs(t, dir)
	cache := NewCache(newTestPipeline(), paths, nil)

	var refreshed int
	cache.OnRefresh(func(*Result) { refreshed++ })

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Overview, 2)

	// Append a third country: the fingerprint changes, the cache must not.
	f, err := os.OpenFile(paths.Investment, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("Japan,2021,75\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
	assert.Len(t, second.Overview, 3)
	assert.Equal(t, 1, refreshed)
	assert.Same(t, second, cache.Cached())
}

func TestCacheMissingInputFile(t *testing.T) {
	paths := writeInputs(t, t.TempDir())
	require.NoError(t, os.Remove(paths.GDP))

	cache := NewCache(newTestPipeline(), paths, nil)
	_, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.Nil(t, cache.Cached())
}
