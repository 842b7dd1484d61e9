package httpx

import (
	"log/slog"
	"net/http"

	"github.com/jobhuntos/jobhunt-api/internal/devseed"
)

// DevHandlers serves development-only endpoints.
type DevHandlers struct {
	Seeder devseed.Creator
	Logger *slog.Logger
}

// Seed handles POST /dev/seed.
func (h *DevHandlers) Seed(w http.ResponseWriter, r *http.Request) {
	n, err := devseed.Run(r.Context(), h.Seeder, h.Logger)
	if err != nil {
		logServerError(r, h.Logger, err)
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]int{"inserted": n})
}
