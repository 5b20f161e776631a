package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ETFScreener/internal/model"
)

// HealthMessage is returned by GET /api/health.
const HealthMessage = "ETF Screener API running"

// ReportSource is what the ETF handler needs from the report service.
type ReportSource interface {
	Report(ctx context.Context, refresh bool) (*model.Report, error)
	Lookup(ticker string) (*model.ETFRecord, bool)
}

// ETFHandler handles ETF report requests.
type ETFHandler struct {
	source ReportSource
}

// NewETFHandler creates a new ETF handler.
func NewETFHandler(source ReportSource) *ETFHandler {
	return &ETFHandler{source: source}
}

// Routes returns the ETF routes.
func (h *ETFHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.List)
	r.Get("/{ticker}", h.Get)
	return r
}

// List handles GET /api/etfs. ?refresh=true bypasses the cache.
func (h *ETFHandler) List(w http.ResponseWriter, r *http.Request) {
	refresh := false
	if v := r.URL.Query().Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, model.NewErrorReport(errInvalidRefresh))
			return
		}
		refresh = b
	}

	report, err := h.source.Report(r.Context(), refresh)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
	}
	render.JSON(w, r, report)
}

// Get handles GET /api/etfs/{ticker} from the latest batch.
func (h *ETFHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	rec, ok := h.source.Lookup(ticker)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{
			"status":  model.StatusError,
			"message": "ticker not found in latest batch: " + ticker,
		})
		return
	}
	render.JSON(w, r, rec)
}

// Health handles GET /api/health.
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"message": HealthMessage,
	})
}
