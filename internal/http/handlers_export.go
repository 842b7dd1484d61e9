package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/service"
)

const (
	csvContentType    = "text/csv; charset=utf-8"
	exportDisposition = `attachment; filename="export.csv"`
)

// ExportHandlers serves the CSV export.
type ExportHandlers struct {
	Exporter *service.CSVProjector
	Logger   *slog.Logger
}

// ExportCSV handles GET /export.csv. The document is rendered fully before the
// status line is sent, so a store failure still yields a JSON error response
// instead of a truncated file.
func (h *ExportHandlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	f, err := model.ParseExportFilter(r.URL.Query())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.Exporter.Export(r.Context(), f, &buf); err != nil {
		logServerError(r, h.Logger, err)
		WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", csvContentType)
	w.Header().Set("Content-Disposition", exportDisposition)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		// Client went away mid-body; nothing left to report to it.
		return
	}
}
