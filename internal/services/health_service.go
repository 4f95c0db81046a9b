package services

import (
	"context"
	"log/slog"
	"os"
	"time"

	"stempulse/internal/pipeline"
)

// HealthStatus is the health endpoint response.
type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Inputs      map[string]string `json:"inputs"`
	CacheWarm   bool              `json:"cache_warm"`
	Fingerprint string            `json:"fingerprint,omitempty"`
}

// HealthService reports whether the input files are readable and the
// cache is warm.
type HealthService struct {
	cache  *pipeline.Cache
	logger *slog.Logger
}

// NewHealthService creates the health service.
func NewHealthService(cache *pipeline.Cache, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{cache: cache, logger: logger.With(slog.String("service", "health"))}
}

// Check inspects each input file and the cache state. A missing input
// degrades the status without failing the endpoint.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	paths := s.cache.Paths()
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Inputs:    make(map[string]string, 3),
	}

	for name, path := range map[string]string{
		"investment": paths.Investment,
		"gdp":        paths.GDP,
		"indicators": paths.Indicators,
	} {
		if _, err := os.Stat(path); err != nil {
			status.Inputs[name] = "missing"
			status.Status = "degraded"
			s.logger.WarnContext(ctx, "input file unavailable",
				slog.String("input", name),
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		status.Inputs[name] = "ok"
	}

	if cached := s.cache.Cached(); cached != nil {
		status.CacheWarm = true
		status.Fingerprint = cached.Fingerprint
	}
	return status
}
