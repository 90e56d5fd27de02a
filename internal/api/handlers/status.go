// Package handlers contains the HTTP handlers for the status API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/internal/scheduler"
	"github.com/wonny/alpha/internal/strategy"
	"github.com/wonny/alpha/pkg/logger"
)

// ReportSource exposes the most recent pipeline report
type ReportSource interface {
	Latest() *contracts.Report
}

// StatsSource exposes scheduler execution statistics
type StatsSource interface {
	GetJobStats() map[string]scheduler.JobStats
}

// StatusHandler serves run results and scheduler state
// ⭐ SSOT: 상태 API 핸들러는 여기서만
type StatusHandler struct {
	reports  ReportSource
	stats    StatsSource
	snapshot *strategy.DecisionSnapshot
	logger   *logger.Logger
}

// NewStatusHandler creates a new status handler. stats may be nil when
// running without the scheduler (one-shot CLI mode).
func NewStatusHandler(reports ReportSource, stats StatsSource, snapshot *strategy.DecisionSnapshot, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		reports:  reports,
		stats:    stats,
		snapshot: snapshot,
		logger:   log,
	}
}

// GetLatestReport returns the most recent run's full report
// GET /api/report/latest
func (h *StatusHandler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	report := h.reports.Latest()
	if report == nil {
		respondError(w, http.StatusNotFound, "No report produced yet")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    report,
	})
}

// GetSchedulerStats returns per-job execution statistics
// GET /api/scheduler/stats
func (h *StatusHandler) GetSchedulerStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		respondError(w, http.StatusNotFound, "Scheduler not running")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.stats.GetJobStats(),
	})
}

// GetStrategy returns the loaded strategy identity and config hash
// GET /api/strategy
func (h *StatusHandler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"strategy_id": h.snapshot.StrategyID,
			"config_hash": h.snapshot.ConfigHash,
			"loaded_at":   h.snapshot.CreatedAt,
		},
	})
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
