package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "stempulse/internal/errors"
	"stempulse/internal/exporter"
	"stempulse/internal/services"
	"stempulse/pkg/contracts/domain"
)

// StoryHandler serves the data story endpoints: country list, overview
// table, statistical analysis, and report downloads.
type StoryHandler struct {
	service      *services.StoryService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewStoryHandler creates the story handler.
func NewStoryHandler(service *services.StoryService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *StoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "story_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the story routes.
func (h *StoryHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/countries", h.GetCountries)
		r.Get("/overview", h.GetOverview)
		r.Get("/analysis", h.GetAnalysis)
		r.Get("/indicators/{indicator}/regression", h.GetIndicatorAnalysis)
	})

	r.Get("/download/combined.csv", h.DownloadCombinedCSV)
	r.Get("/download/summary.txt", h.DownloadSummary)

	return r
}

// GetCountries returns the sorted country list for the multi-select.
func (h *StoryHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.Countries(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dataResponse(countries))
}

// GetOverview returns the joined per-country table, filtered by the
// optional countries query parameter.
func (h *StoryHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Overview(r.Context(), countriesParam(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dataResponse(rows))
}

// GetAnalysis returns the full statistical report.
func (h *StoryHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Analysis(r.Context(), domain.AnalysisRequest{
		Countries: countriesParam(r),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dataResponse(report))
}

// GetIndicatorAnalysis returns the regression and group comparison for
// one indicator. Thin data yields 422 rather than an empty result.
func (h *StoryHandler) GetIndicatorAnalysis(w http.ResponseWriter, r *http.Request) {
	indicator := chi.URLParam(r, "indicator")

	analysis, err := h.service.IndicatorAnalysis(r.Context(), indicator, countriesParam(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dataResponse(analysis))
}

// DownloadCombinedCSV streams the joined table as a CSV attachment.
func (h *StoryHandler) DownloadCombinedCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.CombinedCSVName+`"`)

	if err := h.service.WriteCombinedCSV(r.Context(), w, countriesParam(r)); err != nil {
		// Headers may already be on the wire, logging is all that is left.
		h.logger.ErrorContext(r.Context(), "stream combined csv failed",
			slog.String("error", err.Error()))
	}
}

// DownloadSummary streams the executive summary as a text attachment.
func (h *StoryHandler) DownloadSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.SummaryName+`"`)

	if err := h.service.WriteSummary(r.Context(), w, countriesParam(r)); err != nil {
		h.logger.ErrorContext(r.Context(), "stream summary failed",
			slog.String("error", err.Error()))
	}
}

// countriesParam parses the countries filter. Both repeated parameters
// and one comma-separated value are accepted.
func countriesParam(r *http.Request) []string {
	var countries []string
	for _, raw := range r.URL.Query()["countries"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				countries = append(countries, part)
			}
		}
	}
	return countries
}

// dataResponse is the success envelope, mirroring the error envelope.
func dataResponse(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"success": true,
		"data":    data,
	}
}
