package dashboard

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

// countingAPI serves canned responses for every fetch category and counts
// requests per path. weekly-peak-hours always fails.
type countingAPI struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingAPI() *countingAPI {
	return &countingAPI{counts: map[string]int{}}
}

func (c *countingAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.counts[r.URL.Path]++
		c.mu.Unlock()

		switch r.URL.Path {
		case "/api/summary":
			json.NewEncoder(w).Encode(domain.SummaryResponse{TotalRecords: 3})
		case "/api/hourly-data":
			json.NewEncoder(w).Encode(domain.HourlyDataResponse{Hours: []domain.HourlyRow{{Hour: 9}}})
		case "/api/floor-analytics":
			json.NewEncoder(w).Encode([]domain.FloorAnalytics{{Floor: 1}})
		case "/api/available-dates":
			json.NewEncoder(w).Encode([]string{"2024-01-01"})
		case "/api/weekly-peak-hours":
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})
}

func (c *countingAPI) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[path]
}

func newTestServer(t *testing.T, apiURL string) *Server {
	t.Helper()
	tmpl := template.Must(template.New("dashboard.html").Parse("ok"))
	return newServer(NewClient(apiURL), 10, tmpl)
}

func TestFetchAllIsolatesCategoryFailures(t *testing.T) {
	api := newCountingAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	s := newTestServer(t, srv.URL)
	vd := s.fetchAll(context.Background(), Query{})

	// The failing category records its error and nothing else.
	assert.NotEmpty(t, vd.WeeklyErr)
	assert.Nil(t, vd.WeeklyPeaks)

	require.NotNil(t, vd.Summary)
	assert.Equal(t, 3, vd.Summary.TotalRecords)
	require.NotNil(t, vd.Hourly)
	require.Len(t, vd.Floors, 1)
	assert.Equal(t, []string{"2024-01-01"}, vd.Dates)
	assert.Empty(t, vd.SummaryErr)
	assert.Empty(t, vd.HourlyErr)
	assert.Empty(t, vd.FloorsErr)
	assert.Empty(t, vd.DatesErr)
}

func TestFetchAllConsultsCachesOnRepeat(t *testing.T) {
	api := newCountingAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	s := newTestServer(t, srv.URL)
	s.fetchAll(context.Background(), Query{})
	vd := s.fetchAll(context.Background(), Query{})

	// Successful categories come from cache on the second pass; the
	// failed one is refetched because errors are never cached.
	for _, p := range []string{"/api/summary", "/api/hourly-data", "/api/floor-analytics", "/api/available-dates"} {
		assert.Equal(t, 1, api.count(p), p)
	}
	assert.Equal(t, 2, api.count("/api/weekly-peak-hours"))
	require.NotNil(t, vd.Summary)
	assert.Equal(t, 3, vd.Summary.TotalRecords)
}

func TestMinuteDataDrillDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/minute-data", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.MinuteRow{{Minute: 15, Count: 4}})
	}))
	defer srv.Close()

	s := newTestServer(t, srv.URL)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/api/minute-data?date=2024-01-01&hour=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.MinuteRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 15, rows[0].Minute)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/api/minute-data?date=2024-01-01&hour=24", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchAllCachesPerFilter(t *testing.T) {
	api := newCountingAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	s := newTestServer(t, srv.URL)
	s.fetchAll(context.Background(), Query{Date: "2024-01-01"})
	s.fetchAll(context.Background(), Query{Date: "2024-01-02"})

	// Different filter combinations are distinct cache entries.
	assert.Equal(t, 2, api.count("/api/summary"))
	// The dates list ignores filters and is fetched once.
	assert.Equal(t, 1, api.count("/api/available-dates"))
}
