package httpx

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/service"
)

type applicationPage = service.Page[model.Application]

func TestApplications_CreateSearchExport(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(t, testRequest{
		method: http.MethodPost,
		path:   "/applications",
		apiKey: testAPIKey,
		body:   `{"company":"Acme","role":"Backend Developer","stage":"applied","status":"active"}`,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[model.Application](t, rec)
	require.Positive(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, fmt.Sprintf("/applications/%d", created.ID), rec.Header().Get("Location"))

	rec = s.do(t, testRequest{
		method: http.MethodGet,
		path:   "/applications?search=acme&stage=applied&page=1&page_size=20",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[applicationPage](t, rec)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created, page.Items[0])

	rec = s.do(t, testRequest{method: http.MethodGet, path: "/export.csv?status=active"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="export.csv"`, rec.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, service.ExportHeader, records[0])
	ts := created.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z07:00")
	assert.Equal(t, []string{
		fmt.Sprint(created.ID), "Acme", "Backend Developer", "", "", "", "", "", "",
		"applied", "active", "", "", ts, ts,
	}, records[1])
}

func TestApplications_PagePastEnd(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	for _, company := range []string{"Acme", "Globex", "Initech"} {
		rec := s.do(t, testRequest{
			method: http.MethodPost,
			path:   "/applications",
			apiKey: testAPIKey,
			body:   map[string]string{"company": company, "role": "Engineer", "status": "active"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, testRequest{method: http.MethodGet, path: "/applications?status=active&page=5&page_size=20"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"total":3,"page":5,"page_size":20}`, rec.Body.String())
}

func TestApplications_UpdateWithoutKeyLeavesRecordUnchanged(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	rec := s.do(t, testRequest{
		method: http.MethodPost,
		path:   "/applications",
		apiKey: testAPIKey,
		body:   map[string]string{"company": "Acme", "role": "Backend Developer"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[model.Application](t, rec)
	path := fmt.Sprintf("/applications/%d", created.ID)
	before := s.do(t, testRequest{method: http.MethodGet, path: path}).Body.String()

	for _, key := range []string{"", "wrong-key"} {
		for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
			rec = s.do(t, testRequest{method: method, path: path, apiKey: key, body: `{"company":"Evil"}`})
			require.Equal(t, http.StatusUnauthorized, rec.Code, "%s with key %q", method, key)
			body := decodeBody[errorBody](t, rec)
			assert.Equal(t, "unauthorized", body.Code)
		}
	}

	after := s.do(t, testRequest{method: http.MethodGet, path: path}).Body.String()
	assert.Equal(t, before, after)
}

func TestApplications_CreateWithoutKeyStoresNothing(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	rec := s.do(t, testRequest{
		method: http.MethodPost,
		path:   "/applications",
		body:   map[string]string{"company": "Acme", "role": "Dev"},
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, testRequest{method: http.MethodGet, path: "/applications"})
	assert.Equal(t, 0, decodeBody[applicationPage](t, rec).Total)
}

func TestApplications_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	rec := s.do(t, testRequest{
		method: http.MethodPost,
		path:   "/applications",
		apiKey: testAPIKey,
		body:   `{"company":"Acme","role":"Dev","notes":"first call","salary_min":100}`,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[model.Application](t, rec)
	path := fmt.Sprintf("/applications/%d", created.ID)

	rec = s.do(t, testRequest{
		method: http.MethodPatch,
		path:   path,
		apiKey: testAPIKey,
		body:   `{"stage":"Phone","notes":null}`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[model.Application](t, rec)
	require.NotNil(t, updated.Stage)
	assert.Equal(t, model.StagePhone, *updated.Stage)
	assert.Nil(t, updated.Notes)
	assert.Equal(t, "Acme", updated.Company)
	require.NotNil(t, updated.SalaryMin)
	assert.Equal(t, 100, *updated.SalaryMin)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	rec = s.do(t, testRequest{method: http.MethodDelete, path: path, apiKey: testAPIKey})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, testRequest{method: http.MethodDelete, path: path, apiKey: testAPIKey})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, testRequest{method: http.MethodGet, path: path})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody[errorBody](t, rec).Code)

	rec = s.do(t, testRequest{method: http.MethodPut, path: path, apiKey: testAPIKey, body: `{"notes":"x"}`})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplications_ValidationErrorsNameTheField(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		wantField string
	}{
		{"bad stage filter", http.MethodGet, "/applications?stage=interviewing", "", "stage"},
		{"bad status filter", http.MethodGet, "/applications?status=open", "", "status"},
		{"bad order_by", http.MethodGet, "/applications?order_by=company", "", "order_by"},
		{"bad order_dir", http.MethodGet, "/applications?order_dir=sideways", "", "order_dir"},
		{"zero page", http.MethodGet, "/applications?page=0", "", "page"},
		{"page size too large", http.MethodGet, "/applications?page_size=101", "", "page_size"},
		{"non-numeric page", http.MethodGet, "/applications?page=two", "", "page"},
		{"bad export filter", http.MethodGet, "/export.csv?stage=nope", "", "stage"},
		{"bad id", http.MethodGet, "/applications/abc", "", "id"},
		{"missing company", http.MethodPost, "/applications", `{"role":"Dev"}`, "company"},
		{"bad employment type", http.MethodPost, "/applications",
			`{"company":"A","role":"B","employment_type":"gig"}`, "employment_type"},
		{"salary range inverted", http.MethodPost, "/applications",
			`{"company":"A","role":"B","salary_min":200,"salary_max":100}`, "salary_min"},
		{"negative salary", http.MethodPost, "/applications",
			`{"company":"A","role":"B","salary_max":-1}`, "salary_max"},
		{"salary beyond integer column", http.MethodPost, "/applications",
			`{"company":"A","role":"B","salary_max":3000000000}`, "salary_max"},
		{"impossible date", http.MethodPost, "/applications",
			`{"company":"A","role":"B","next_action_date":"2025-02-30"}`, "next_action_date"},
		{"wrong date shape", http.MethodPost, "/applications",
			`{"company":"A","role":"B","next_action_date":"02/03/2025"}`, "next_action_date"},
		{"non-numeric salary", http.MethodPost, "/applications",
			`{"company":"A","role":"B","salary_min":"lots"}`, "salary_min"},
		{"numeric company", http.MethodPost, "/applications",
			`{"company":7,"role":"B"}`, "company"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest{method: tt.method, path: tt.path, apiKey: testAPIKey}
			if tt.body != "" {
				req.body = tt.body
			}
			rec := s.do(t, req)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decodeBody[errorBody](t, rec)
			assert.Equal(t, "validation", body.Code)
			assert.Equal(t, tt.wantField, body.Field)
			assert.True(t, strings.HasPrefix(body.Error, tt.wantField+": "), body.Error)
		})
	}

	rec := s.do(t, testRequest{method: http.MethodGet, path: "/applications"})
	assert.Equal(t, 0, decodeBody[applicationPage](t, rec).Total)
}

func TestApplications_MalformedJSON(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	for _, body := range []string{`{"company":`, `{"company":"A","role":"B","unknown":1}`, `{} {}`} {
		rec := s.do(t, testRequest{method: http.MethodPost, path: "/applications", apiKey: testAPIKey, body: body})
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "invalid_json", decodeBody[errorBody](t, rec).Code)
	}
}

func TestApplications_GateMisconfigured(t *testing.T) {
	s := &testServer{handler: NewRouter(RouterServices{Gate: service.NewWriteGate("")})}

	rec := s.do(t, testRequest{method: http.MethodPost, path: "/applications", apiKey: "anything", body: `{}`})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "internal", body.Code)
	assert.Equal(t, "write credential is not configured", body.Error)
}

func TestExport_MatchesConcatenatedPages(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	for i := range 25 {
		stage := "applied"
		if i%3 == 0 {
			stage = "phone"
		}
		rec := s.do(t, testRequest{
			method: http.MethodPost,
			path:   "/applications",
			apiKey: testAPIKey,
			body: map[string]any{
				"company": fmt.Sprintf("Company %02d", i%7),
				"role":    "Engineer",
				"stage":   stage,
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	const filter = "search=company&stage=applied&order_by=updated_at&order_dir=ASC"
	var fromPages []string
	for p := 1; ; p++ {
		rec := s.do(t, testRequest{method: http.MethodGet, path: fmt.Sprintf("/applications?%s&page=%d&page_size=4", filter, p)})
		require.Equal(t, http.StatusOK, rec.Code)
		page := decodeBody[applicationPage](t, rec)
		assert.LessOrEqual(t, len(page.Items), 4)
		if len(page.Items) == 0 {
			break
		}
		for _, a := range page.Items {
			fromPages = append(fromPages, fmt.Sprint(a.ID))
		}
	}

	rec := s.do(t, testRequest{method: http.MethodGet, path: "/export.csv?" + filter + "&page=3&page_size=1"})
	require.Equal(t, http.StatusOK, rec.Code)
	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)

	var fromExport []string
	for _, row := range records[1:] {
		fromExport = append(fromExport, row[0])
	}
	assert.Len(t, fromExport, 16)
	assert.Equal(t, fromPages, fromExport)
}

func TestDevSeed(t *testing.T) {
	prod := newTestServer(t, serverOptions{})
	rec := prod.do(t, testRequest{method: http.MethodPost, path: "/dev/seed", apiKey: testAPIKey})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	dev := newTestServer(t, serverOptions{isDev: true})
	rec = dev.do(t, testRequest{method: http.MethodPost, path: "/dev/seed"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = dev.do(t, testRequest{method: http.MethodPost, path: "/dev/seed", apiKey: testAPIKey})
	require.Equal(t, http.StatusCreated, rec.Code)
	inserted := decodeBody[map[string]int](t, rec)["inserted"]
	assert.Positive(t, inserted)

	f := model.DefaultApplicationFilter()
	page, err := service.NewResultPaginator(dev.repo).Paginate(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, inserted, page.Total)
}

func TestRouter_RequestIDAndMetrics(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(t, testRequest{method: http.MethodGet, path: "/applications"})
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = s.do(t, testRequest{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="GET /applications"`)
}
