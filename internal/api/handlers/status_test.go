package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/internal/scheduler"
	"github.com/wonny/alpha/internal/strategy"
	"github.com/wonny/alpha/pkg/logger"
)

type fakeReports struct {
	report *contracts.Report
}

func (f *fakeReports) Latest() *contracts.Report { return f.report }

type fakeStats struct {
	stats map[string]scheduler.JobStats
}

func (f *fakeStats) GetJobStats() map[string]scheduler.JobStats { return f.stats }

func testSnapshot() *strategy.DecisionSnapshot {
	return &strategy.DecisionSnapshot{
		StrategyID: "us_digest_v1",
		ConfigHash: "abc123",
		CreatedAt:  time.Now(),
	}
}

func TestGetLatestReport(t *testing.T) {
	report := contracts.NewReport(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	handler := NewStatusHandler(&fakeReports{report: report}, nil, testSnapshot(), logger.Nop())

	rec := httptest.NewRecorder()
	handler.GetLatestReport(rec, httptest.NewRequest(http.MethodGet, "/api/report/latest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool              `json:"success"`
		Data    *contracts.Report `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.Data.Status != contracts.StatusComplete {
		t.Errorf("Unexpected response: %+v", body)
	}
}

func TestGetLatestReport_NoneYet(t *testing.T) {
	handler := NewStatusHandler(&fakeReports{}, nil, testSnapshot(), logger.Nop())

	rec := httptest.NewRecorder()
	handler.GetLatestReport(rec, httptest.NewRequest(http.MethodGet, "/api/report/latest", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 before first run, got %d", rec.Code)
	}
}

func TestGetSchedulerStats(t *testing.T) {
	stats := &fakeStats{stats: map[string]scheduler.JobStats{
		"daily_report": {JobName: "daily_report", TotalRuns: 3, SuccessCount: 2, FailureCount: 1},
	}}
	handler := NewStatusHandler(&fakeReports{}, stats, testSnapshot(), logger.Nop())

	rec := httptest.NewRecorder()
	handler.GetSchedulerStats(rec, httptest.NewRequest(http.MethodGet, "/api/scheduler/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Data map[string]scheduler.JobStats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data["daily_report"].TotalRuns != 3 {
		t.Errorf("Unexpected stats: %+v", body.Data)
	}
}

func TestGetSchedulerStats_NotRunning(t *testing.T) {
	handler := NewStatusHandler(&fakeReports{}, nil, testSnapshot(), logger.Nop())

	rec := httptest.NewRecorder()
	handler.GetSchedulerStats(rec, httptest.NewRequest(http.MethodGet, "/api/scheduler/stats", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without scheduler, got %d", rec.Code)
	}
}

func TestGetStrategy(t *testing.T) {
	handler := NewStatusHandler(&fakeReports{}, nil, testSnapshot(), logger.Nop())

	rec := httptest.NewRecorder()
	handler.GetStrategy(rec, httptest.NewRequest(http.MethodGet, "/api/strategy", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data["strategy_id"] != "us_digest_v1" || body.Data["config_hash"] != "abc123" {
		t.Errorf("Unexpected strategy payload: %v", body.Data)
	}
}
