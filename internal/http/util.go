package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
)

// statusClientClosedRequest is the de facto status for requests the client abandoned.
const statusClientClosedRequest = 499

//nolint:gochecknoglobals // read-only lookup
var statusByCode = map[apperrors.ErrorCode]int{
	apperrors.ErrCodeValidation:   http.StatusBadRequest,
	apperrors.ErrCodeNotFound:     http.StatusNotFound,
	apperrors.ErrCodeUnauthorized: http.StatusUnauthorized,
	apperrors.ErrCodeUnavailable:  http.StatusServiceUnavailable,
	apperrors.ErrCodeTimeout:      http.StatusGatewayTimeout,
	apperrors.ErrCodeCanceled:     statusClientClosedRequest,
	apperrors.ErrCodeInternal:     http.StatusInternalServerError,
}

// StatusForError returns the HTTP status for err.
func StatusForError(err error) int {
	if status, ok := statusByCode[apperrors.GetCode(err)]; ok {
		return status
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	}
	return http.StatusInternalServerError
}

// parseIDPath reads the {id} path value as a positive record id.
func parseIDPath(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.ValidationFieldf("id", "invalid value %q: must be a positive integer", raw)
	}
	return id, nil
}

var errApplicationNotFound = apperrors.NotFound("application not found")

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// logServerError logs errors that map onto a 5xx status; client errors are
// already visible in the access log.
func logServerError(r *http.Request, logger *slog.Logger, err error) {
	if StatusForError(err) < http.StatusInternalServerError {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Any("error", err),
	)
}
