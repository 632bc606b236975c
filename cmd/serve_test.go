package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/cache"
	"github.com/sells-group/enrich-cli/internal/candidates"
	"github.com/sells-group/enrich-cli/internal/discover"
	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/jobs"
	"github.com/sells-group/enrich-cli/internal/match"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/resilience"
	"github.com/sells-group/enrich-cli/internal/waterfall"
)

// staticProvider returns the same candidate for every lookup.
type staticProvider struct {
	cand model.Candidate
}

func (s *staticProvider) Name() string { return "places" }

func (s *staticProvider) Lookup(context.Context, string, string) ([]model.Candidate, error) {
	return []model.Candidate{s.cand}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *jobs.Registry) {
	t.Helper()
	orch := enrich.New(
		[]candidates.Provider{&staticProvider{cand: model.Candidate{
			Source:  model.SourcePlaces,
			Name:    "Acme Plumbing",
			Website: "https://acmeplumbing.com",
		}}},
		match.NewMatcher(nil),
		discover.New(nil, nil, 2),
		waterfall.NewPhoneWaterfall(nil, nil),
		waterfall.NewEmailWaterfall(nil, nil, nil),
		nil,
		cache.NewMemory(),
		resilience.NewHealthTracker(3),
	)
	registry := jobs.NewRegistry()
	return newRouter(context.Background(), registry, enrich.NewRunner(orch, 2)), registry
}

func TestServeHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServeJobLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"rows":[{"display_name":"Acme Plumbing LLC","state":"TX"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var job jobs.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	require.NotEmpty(t, job.ID)

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID, nil))
		var got jobs.Job
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			return false
		}
		return got.Status == jobs.StatusComplete
	}, 5*time.Second, 10*time.Millisecond)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID+"/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.OutputColumns, records[0])
}

func TestServeJobValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{"rows":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeUnknownJob(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/does-not-exist/results", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeResultsBeforeComplete(t *testing.T) {
	router, registry := newTestRouter(t)

	job := registry.Create(1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID+"/results", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
