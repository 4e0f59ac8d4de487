package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metro-rent-assistant/models"
	"metro-rent-assistant/services"
	"metro-rent-assistant/storage"
)

func testTable() *models.MetroTable {
	return &models.MetroTable{
		Years: []int{2021, 2022, 2025},
		Rows: []*models.MetroRecord{
			{RegionName: "United States", YearlyRent: map[int]float64{2022: 1600, 2025: 1700}},
			{RegionName: "New York, NY", State: "NY", YearlyRent: map[int]float64{2021: 2500, 2022: 2700, 2025: 3000}},
			{RegionName: "Austin, TX", State: "TX", YearlyRent: map[int]float64{2021: 1500, 2022: 1800, 2025: 1620}},
			{RegionName: "Wichita Falls, TX", State: "TX", YearlyRent: map[int]float64{2022: 900, 2025: 950}},
		},
	}
}

func newTestRouter(src storage.MetroSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := services.NewDatasetStore(src, nil)
	rec := services.NewRecommender(store, services.RecommenderOptions{}, nil)
	return New(services.NewAssistant(rec, services.AssistantOptions{}, nil), store, nil)
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeRows(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var body rowsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, len(body.Rows), body.Count)
	out := make([]string, len(body.Rows))
	for i, r := range body.Rows {
		out[i] = r.RegionName
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(&storage.StaticSource{Table: testTable()})

	w := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(&storage.StaticSource{Table: testTable()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestChat(t *testing.T) {
	r := newTestRouter(&storage.StaticSource{Table: testTable()})

	w := do(t, r, http.MethodPost, "/chat", `{"message":"cheapest metros in TX","history":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Reply, "Wichita Falls, TX")
	assert.NotEmpty(t, body.RequestID)

	w = do(t, r, http.MethodPost, "/chat", `{"message":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRankingEndpoints(t *testing.T) {
	r := newTestRouter(&storage.StaticSource{Table: testTable()})

	w := do(t, r, http.MethodGet, "/metros/cheapest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Wichita Falls, TX", "Austin, TX", "New York, NY"}, decodeRows(t, w))

	w = do(t, r, http.MethodGet, "/metros/most-expensive?state=tx&limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Austin, TX"}, decodeRows(t, w))

	w = do(t, r, http.MethodGet, "/metros/growth?horizon=3y&direction=down", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Austin, TX", "Wichita Falls, TX", "New York, NY"}, decodeRows(t, w))

	w = do(t, r, http.MethodGet, "/metros/budget?budget=1000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Wichita Falls, TX"}, decodeRows(t, w))

	w = do(t, r, http.MethodGet, "/metros/budget?budget=100", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeRows(t, w))
}

func TestBadRequests(t *testing.T) {
	r := newTestRouter(&storage.StaticSource{Table: testTable()})

	for _, target := range []string{
		"/metros/cheapest?state=Texas",
		"/metros/cheapest?limit=0",
		"/metros/growth?horizon=10y",
		"/metros/growth?direction=sideways",
		"/metros/budget",
		"/metros/budget?budget=-5",
		"/metros/budget?budget=NaN",
		"/metros/budget?budget=Inf",
		"/metros/budget?budget=1000&trend=wild",
		"/metros/compare?a=Austin",
		"/metros/resolve",
	} {
		w := do(t, r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestCompareAndResolve(t *testing.T) {
	r := newTestRouter(&storage.StaticSource{Table: testTable()})

	w := do(t, r, http.MethodGet, "/metros/compare?a=Austin&b=New+York", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Outcome        string   `json:"outcome"`
		RentDifference *float64 `json:"rent_difference"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "both", body.Outcome)
	require.NotNil(t, body.RentDifference)
	assert.Equal(t, 1380.0, *body.RentDifference)

	w = do(t, r, http.MethodGet, "/metros/resolve?name=wichita", "")
	require.Equal(t, http.StatusOK, w.Code)
	var m models.MetroRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "Wichita Falls, TX", m.RegionName)
	assert.Equal(t, models.TrendFlat, m.TrendLabel)

	w = do(t, r, http.MethodGet, "/metros/resolve?name=Atlantis", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInsights(t *testing.T) {
	r := newTestRouter(&storage.StaticSource{Table: testTable()})

	w := do(t, r, http.MethodGet, "/insights", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report models.MarketReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 3, report.TotalMetros)
	assert.Equal(t, 950.0, report.MinRent)
	assert.Equal(t, 2, report.MetrosByState["TX"])
}

func TestDataUnavailable(t *testing.T) {
	r := newTestRouter(&storage.StaticSource{Err: errors.New("missing file")})

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/health", ""},
		{http.MethodPost, "/chat", `{"message":"cheapest metros"}`},
		{http.MethodGet, "/metros/cheapest", ""},
		{http.MethodGet, "/insights", ""},
	} {
		w := do(t, r, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tc.target)
	}
}
