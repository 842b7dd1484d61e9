package httpx

import (
	"log/slog"
	"net/http"

	"github.com/jobhuntos/jobhunt-api/internal/observability/metrics"
	"github.com/jobhuntos/jobhunt-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Applications *service.ApplicationService
	Paginator    *service.ResultPaginator
	Exporter     *service.CSVProjector
	Gate         *service.WriteGate
	// Optional: dependency probes for /healthz
	Probes []HealthProbe
	// Optional: when nil, /metrics is not mounted and requests are not measured
	Metrics *metrics.Collector
	IsDev   bool         // Mounts /dev/seed
	Logger  *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router with its middleware stack.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	gated := RequireWriteGate(services.Gate)

	apps := &ApplicationHandlers{Svc: services.Applications, Paginator: services.Paginator, Logger: logger}
	registerApplicationRoutes(mux, apps, gated)

	export := &ExportHandlers{Exporter: services.Exporter, Logger: logger}
	mux.HandleFunc("GET /export.csv", export.ExportCSV)

	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("HEAD /health", healthHandler)
	mux.Handle("GET /healthz", &ReadinessHandler{Probes: services.Probes})

	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}

	if services.IsDev {
		dev := &DevHandlers{Seeder: services.Applications, Logger: logger}
		mux.Handle("POST /dev/seed", gated(http.HandlerFunc(dev.Seed)))
	}

	return Chain(mux,
		Recover(logger),
		RequestID(),
		Logging(logger),
		Metrics(services.Metrics),
	)
}

func registerApplicationRoutes(
	mux *http.ServeMux,
	h *ApplicationHandlers,
	gated func(http.Handler) http.Handler,
) {
	mux.HandleFunc("GET /applications", h.List)
	mux.HandleFunc("GET /applications/{id}", h.GetByID)
	mux.Handle("POST /applications", gated(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /applications/{id}", gated(http.HandlerFunc(h.Update)))
	mux.Handle("PATCH /applications/{id}", gated(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /applications/{id}", gated(http.HandlerFunc(h.Delete)))
}
