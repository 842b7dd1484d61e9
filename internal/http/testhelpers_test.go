package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobhuntos/jobhunt-api/internal/data"
	"github.com/jobhuntos/jobhunt-api/internal/data/database"
	"github.com/jobhuntos/jobhunt-api/internal/observability/metrics"
	"github.com/jobhuntos/jobhunt-api/internal/service"
	"github.com/jobhuntos/jobhunt-api/internal/testutil"
)

const testAPIKey = "test-secret"

type testServer struct {
	handler http.Handler
	repo    *data.ApplicationRepo
	metrics *metrics.Collector
}

type serverOptions struct {
	secret string
	isDev  bool
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	if opts.secret == "" {
		opts.secret = testAPIKey
	}
	db := testutil.SetupSQLiteDB(t)
	repo := data.NewApplicationRepo(db, database.SQLite)
	m := metrics.NewCollector()

	handler := NewRouter(RouterServices{
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{Repo: repo}),
		Paginator:    service.NewResultPaginator(repo),
		Exporter:     service.NewCSVProjector(repo, m),
		Gate:         service.NewWriteGate(opts.secret),
		Metrics:      m,
		IsDev:        opts.isDev,
	})
	return &testServer{handler: handler, repo: repo, metrics: m}
}

type testRequest struct {
	method string
	path   string
	body   any
	apiKey string
}

func (s *testServer) do(t *testing.T, req testRequest) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if req.body != nil {
		switch b := req.body.(type) {
		case string:
			body = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			body = bytes.NewReader(raw)
		}
	}
	r := httptest.NewRequest(req.method, req.path, body)
	if req.body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.apiKey != "" {
		r.Header.Set(service.APIKeyHeader, req.apiKey)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
