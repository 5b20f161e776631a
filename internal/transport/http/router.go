package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var errInvalidRefresh = errors.New("refresh must be a boolean")

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Reports        ReportSource
	AllowedOrigins []string
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the chi router with the API, health and metrics routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health)
		r.Mount("/etfs", NewETFHandler(cfg.Reports).Routes())
	})

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}
