package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
	"github.com/jobhuntos/jobhunt-api/internal/observability/metrics"
)

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"internal"}`, rec.Body.String())
	assert.Contains(t, logs.String(), `"msg":"panic"`)
}

func TestMetrics_CountsPanickedRequests(t *testing.T) {
	collector := metrics.NewCollector()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	mux.HandleFunc("GET /ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Chain(mux, Recover(logger), Metrics(collector))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.True(t, hasRequestSample(scrape.Body.String(), "500", "GET /boom"), scrape.Body.String())
	assert.True(t, hasRequestSample(scrape.Body.String(), "204", "GET /ok"), scrape.Body.String())
}

func hasRequestSample(exposition, code, route string) bool {
	for _, line := range strings.Split(exposition, "\n") {
		if strings.Contains(line, "http_requests_total{") &&
			strings.Contains(line, `code="`+code+`"`) &&
			strings.Contains(line, `route="`+route+`"`) {
			return true
		}
	}
	return false
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), RequestID(), Logging(logger))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/applications", nil))
	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"path":"/applications"`)
	assert.Contains(t, logs.String(), `"request_id":"`)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.Validation("bad"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", apperrors.NotFound("gone")), http.StatusNotFound},
		{apperrors.Unauthorized("no"), http.StatusUnauthorized},
		{apperrors.Unavailable("db down"), http.StatusServiceUnavailable},
		{apperrors.Wrap(context.DeadlineExceeded, apperrors.ErrCodeTimeout, "slow"), http.StatusGatewayTimeout},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{context.Canceled, statusClientClosedRequest},
		{apperrors.Internal("oops"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForError(tt.err), "%v", tt.err)
	}
}

func TestWriteAppError_HidesUnclassifiedMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, errors.New("pq: password authentication failed for user"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}
