// Package app wires the service together: configuration, logging,
// pipeline cache, services, router, and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"stempulse/internal/config"
	"stempulse/internal/dataset"
	apierrors "stempulse/internal/errors"
	"stempulse/internal/exporter"
	"stempulse/internal/infrastructure"
	"stempulse/internal/middleware"
	"stempulse/internal/normalize"
	"stempulse/internal/pipeline"
	"stempulse/internal/services"
	handlers "stempulse/internal/transport/http"
	ws "stempulse/internal/websocket"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application is the dependency container for the web server.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics

	Cache   *pipeline.Cache
	Watcher *pipeline.Watcher
	Hub     *ws.Hub
	Story   *services.StoryService
	Health  *services.HealthService

	Router *chi.Mux
	Server *http.Server
}

// New loads configuration and builds the full application graph.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	if err := cfg.EnsureReportsDir(); err != nil {
		return nil, fmt.Errorf("ensure reports dir: %w", err)
	}

	metrics := infrastructure.NewMetrics()

	paths := pipeline.InputPaths{
		Investment: cfg.Data.InvestmentFile,
		GDP:        cfg.Data.GDPFile,
		Indicators: cfg.Data.IndicatorsFile,
	}
	p := pipeline.New(dataset.NewLoader(logger), normalize.New(nil), logger)
	cache := pipeline.NewCache(p, paths, logger)
	cache.SetCounters(metrics.PipelineRuns, metrics.PipelineErrors, metrics.CacheHits)

	hub := ws.NewHub(logger)
	cache.OnRefresh(func(result *pipeline.Result) {
		hub.BroadcastDataChanged(result.Fingerprint)
	})

	writer := exporter.NewWriter(cfg.Data.ReportsDir, logger)
	story := services.NewStoryService(cache, writer, cfg.Analysis, logger)
	health := services.NewHealthService(cache, logger)

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Cache:   cache,
		Hub:     hub,
		Story:   story,
		Health:  health,
	}
	if cfg.Data.Watch {
		app.Watcher = pipeline.NewWatcher(cache, paths, logger)
	}

	app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.Metrics(a.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if a.Config.Security.RateLimit.Enabled {
		r.Use(middleware.RateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst))
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	storyHandler := handlers.NewStoryHandler(a.Story, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Health, Version, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.GetHealth)
		r.Get("/version", healthHandler.GetVersion)
		r.Mount("/", storyHandler.Routes())
	})
	r.Handle("/metrics", a.Metrics.Handler())
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(a.Hub, w, req, a.Logger)
	})

	a.Router = r
}

// Run starts the hub, the optional file watcher, and the HTTP server,
// then blocks until the context is cancelled or SIGINT/SIGTERM arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Hub.Start()
	defer a.Hub.Stop()

	if a.Watcher != nil {
		go func() {
			if err := a.Watcher.Run(ctx); err != nil {
				a.Logger.Error("file watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	// Warm the cache so the first request does not pay for the load.
	// A missing input is not fatal: the watcher or a later request
	// picks it up once the file appears.
	if _, err := a.Cache.Get(ctx); err != nil {
		a.Logger.Warn("initial data load failed", slog.String("error", err.Error()))
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
