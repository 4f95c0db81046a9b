package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Fingerprint hashes the contents of the three input files into one cache
// key. Any content change in any file changes the fingerprint, which is
// the single invalidation rule of the cache.
func Fingerprint(paths InputPaths) (string, error) {
	h := sha256.New()
	for _, path := range []string{paths.Investment, paths.GDP, paths.Indicators} {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("fingerprint input: %w", err)
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("fingerprint %s: %w", path, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Cache memoizes the latest pipeline Result keyed by input fingerprint.
// Concurrent callers during a recompute share one run via singleflight;
// there is no other shared mutable state across runs.
type Cache struct {
	pipeline *Pipeline
	paths    InputPaths
	logger   *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	current *Result

	// onRefresh, when set, is called after a new generation replaces the
	// cached one. The web layer uses it to notify connected pages.
	onRefresh func(*Result)

	runs, errors, hits Counter
}

// Counter is the subset of a metrics counter the cache needs. A Prometheus
// counter satisfies it.
type Counter interface {
	Inc()
}

// NewCache creates a cache over the given pipeline and inputs.
func NewCache(p *Pipeline, paths InputPaths, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{pipeline: p, paths: paths, logger: logger}
}

// Pipeline returns the pipeline the cache computes with.
func (c *Cache) Pipeline() *Pipeline {
	return c.pipeline
}

// Paths returns the input files the cache is keyed on.
func (c *Cache) Paths() InputPaths {
	return c.paths
}

// OnRefresh registers a callback invoked whenever a fresh Result replaces
// the cached generation. Must be set before serving traffic.
func (c *Cache) OnRefresh(fn func(*Result)) {
	c.onRefresh = fn
}

// SetCounters attaches run/error/hit counters. Any may be nil. Must be set
// before serving traffic.
func (c *Cache) SetCounters(runs, errors, hits Counter) {
	c.runs, c.errors, c.hits = runs, errors, hits
}

func inc(c Counter) {
	if c != nil {
		c.Inc()
	}
}

// Get returns the Result for the current input contents, recomputing only
// when any input file changed since the cached generation.
func (c *Cache) Get(ctx context.Context) (*Result, error) {
	fp, err := Fingerprint(c.paths)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	current := c.current
	c.mu.RUnlock()
	if current != nil && current.Fingerprint == fp {
		inc(c.hits)
		return current, nil
	}

	v, err, _ := c.group.Do(fp, func() (interface{}, error) {
		// Another caller may have finished this generation while we waited.
		c.mu.RLock()
		cached := c.current
		c.mu.RUnlock()
		if cached != nil && cached.Fingerprint == fp {
			return cached, nil
		}

		result, err := c.pipeline.Run(ctx, c.paths)
		if err != nil {
			inc(c.errors)
			return nil, err
		}
		inc(c.runs)
		result.Fingerprint = fp

		c.mu.Lock()
		replaced := c.current != nil
		c.current = result
		c.mu.Unlock()

		c.logger.InfoContext(ctx, "pipeline cache refreshed",
			slog.String("fingerprint", fp[:12]),
			slog.Int("countries", len(result.Overview)),
			slog.Bool("replaced", replaced))

		if replaced && c.onRefresh != nil {
			c.onRefresh(result)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// Cached returns the current generation without touching the input files,
// or nil when nothing has been computed yet.
func (c *Cache) Cached() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}
