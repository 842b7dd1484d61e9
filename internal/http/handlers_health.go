package httpx

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthResponse = `{"status":"ok"}`

// defaultProbeTimeout bounds a readiness check when ReadinessHandler.Timeout is unset.
const defaultProbeTimeout = 2 * time.Second

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// HealthProbe checks one dependency.
type HealthProbe struct {
	Name  string
	Check func(ctx context.Context) error
}

// ReadinessHandler runs every probe concurrently and reports 503 if any fails.
type ReadinessHandler struct {
	Probes  []HealthProbe
	Timeout time.Duration
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *ReadinessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	results := make([]string, len(h.Probes))
	var g errgroup.Group
	for i, p := range h.Probes {
		g.Go(func() error {
			if err := p.Check(ctx); err != nil {
				results[i] = "error: " + err.Error()
				return err
			}
			results[i] = "ok"
			return nil
		})
	}
	failed := g.Wait() != nil

	resp := readinessResponse{Status: "ok", Checks: make(map[string]string, len(h.Probes))}
	for i, p := range h.Probes {
		resp.Checks[p.Name] = results[i]
	}
	code := http.StatusOK
	if failed {
		resp.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, resp)
}
