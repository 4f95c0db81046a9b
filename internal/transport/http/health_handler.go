package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"stempulse/internal/services"
)

// HealthHandler serves liveness and version information.
type HealthHandler struct {
	health  *services.HealthService
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(health *services.HealthService, version string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		health:  health,
		version: version,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", h.GetHealth)
	r.Get("/version", h.GetVersion)
	return r
}

// GetHealth reports input availability and cache state. Degraded inputs
// still return 200 so load balancers keep the process in rotation while
// operators fix the data files.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.health.Check(r.Context()))
}

// GetVersion reports the build version.
func (h *HealthHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"version": h.version})
}
