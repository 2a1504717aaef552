package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/period"
	"github.com/minhvo/earnscope/pkg/config"
	"github.com/minhvo/earnscope/pkg/logger"
)

func fv(v float64) *float64 {
	return &v
}

// fakeSource serves a fixed three-period Revenue history for one ticker.
type fakeSource struct {
	periods    []string
	failFetch  bool
	assignment contracts.SectorAssignment
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		periods: []string{"2023Q1", "2022Q4", "2022Q1"},
		assignment: contracts.SectorAssignment{
			Ticker: "ABC", Sector: "Tech", L1: "Tech", L2: "Software",
		},
	}
}

func (f *fakeSource) SectorMap(ctx context.Context) ([]contracts.SectorAssignment, error) {
	return []contracts.SectorAssignment{f.assignment}, nil
}

func (f *fakeSource) AvailablePeriods(ctx context.Context, frequency period.Frequency) ([]string, error) {
	return f.periods, nil
}

func (f *fakeSource) Financials(ctx context.Context, frequency period.Frequency, periods []string) ([]contracts.FactRow, error) {
	if f.failFetch {
		return nil, errors.New("connection refused")
	}
	values := map[string]*float64{"2023Q1": fv(100), "2022Q4": fv(80), "2022Q1": fv(50)}
	rows := make([]contracts.FactRow, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, contracts.FactRow{
			Ticker: "ABC", Period: p, Keycode: "Net_Revenue", Value: values[p],
			Sector: "Tech", L1: "Tech", L2: "Software",
		})
	}
	return rows, nil
}

func testHandler(source contracts.DataSource) *Handler {
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	return New(source, logger.New(cfg))
}

func doRequest(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGetPeriods(t *testing.T) {
	h := testHandler(newFakeSource())

	rec, body := doRequest(t, h.GetPeriods, "/api/periods?frequency=Quarterly")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["count"])
	assert.Equal(t, "2023Q1", data["periods"].([]interface{})[0])
}

func TestGetPeriodsBadFrequency(t *testing.T) {
	h := testHandler(newFakeSource())

	rec, body := doRequest(t, h.GetPeriods, "/api/periods?frequency=Monthly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "Monthly")
}

func TestGetSummaryDefaultsToLatestPeriod(t *testing.T) {
	h := testHandler(newFakeSource())

	rec, body := doRequest(t, h.GetSummary, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "2023Q1", data["period"])

	summary := data["summary"].(map[string]interface{})
	rows := summary["rows"].([]interface{})
	require.Len(t, rows, 2, "Total row plus one sector")

	total := rows[0].(map[string]interface{})
	assert.Equal(t, "Total", total["sector"])
	assert.InDelta(t, 100, total["Revenue"].(float64), 1e-9)
	assert.InDelta(t, 0.25, total["Revenue_QoQ"].(float64), 1e-12)
	assert.InDelta(t, 1.0, total["Revenue_YoY"].(float64), 1e-12)
}

func TestGetSummaryExplicitPeriodAndLevel(t *testing.T) {
	h := testHandler(newFakeSource())

	rec, body := doRequest(t, h.GetSummary, "/api/summary?period=2022Q4&level=L2")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "2022Q4", data["period"])
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, "L2", summary["level"])
}

func TestGetSummaryMalformedPeriod(t *testing.T) {
	h := testHandler(newFakeSource())

	rec, _ := doRequest(t, h.GetSummary, "/api/summary?period=23Q1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaryBadLevel(t *testing.T) {
	h := testHandler(newFakeSource())

	rec, _ := doRequest(t, h.GetSummary, "/api/summary?level=L3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaryNoPeriodsAvailable(t *testing.T) {
	source := newFakeSource()
	source.periods = nil
	h := testHandler(source)

	rec, _ := doRequest(t, h.GetSummary, "/api/summary")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSummaryFetchFailure(t *testing.T) {
	source := newFakeSource()
	source.failFetch = true
	h := testHandler(source)

	rec, body := doRequest(t, h.GetSummary, "/api/summary")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Upstream error detail stays in the log, not the response
	assert.Equal(t, "Failed to load financials", body["error"])
}

func TestGetSurprises(t *testing.T) {
	h := testHandler(newFakeSource())

	rec, body := doRequest(t, h.GetSurprises, "/api/surprises?metric=Revenue&min_base=0")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	result := data["result"].(map[string]interface{})
	best := result["best"].([]interface{})
	require.Len(t, best, 1)
	assert.Equal(t, "ABC", best[0].(map[string]interface{})["ticker"])
}

func TestGetSurprisesMinBaseFiltersAll(t *testing.T) {
	h := testHandler(newFakeSource())

	// Default min_base of 200e9 is far above the fixture values
	rec, body := doRequest(t, h.GetSurprises, "/api/surprises?metric=Revenue")
	require.Equal(t, http.StatusOK, rec.Code)

	result := body["data"].(map[string]interface{})["result"].(map[string]interface{})
	assert.Empty(t, result["best"])
}

func TestGetSurprisesUnknownMetric(t *testing.T) {
	h := testHandler(newFakeSource())

	rec, _ := doRequest(t, h.GetSurprises, "/api/surprises?metric=Margin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSurprisesBadParams(t *testing.T) {
	h := testHandler(newFakeSource())

	tests := []struct {
		name   string
		target string
	}{
		{name: "non numeric min_base", target: "/api/surprises?min_base=lots"},
		{name: "non numeric top_n", target: "/api/surprises?top_n=ten"},
		{name: "zero top_n", target: "/api/surprises?top_n=0"},
		{name: "oversized top_n", target: "/api/surprises?top_n=500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doRequest(t, h.GetSurprises, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
