// Package jobs defines the scheduled pipeline jobs.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/logger"
)

// PipelineRunner runs one full digest pipeline for a reference date
type PipelineRunner interface {
	Run(ctx context.Context, date time.Time) (*contracts.Report, error)
}

// DailyReport produces and publishes the digest once per trading day
// ⭐ SSOT: 일일 리포트 작업은 여기서만
type DailyReport struct {
	runner   PipelineRunner
	schedule string
	loc      *time.Location
	logger   *logger.Logger

	mu     sync.RWMutex
	latest *contracts.Report
}

// NewDailyReport creates the daily report job. schedule is a cron
// expression already converted from the strategy's local run time.
func NewDailyReport(runner PipelineRunner, schedule string, loc *time.Location, log *logger.Logger) *DailyReport {
	return &DailyReport{
		runner:   runner,
		schedule: schedule,
		loc:      loc,
		logger:   log.WithField("job", "daily_report"),
	}
}

// Name returns the job name
func (j *DailyReport) Name() string { return "daily_report" }

// Schedule returns the cron expression
func (j *DailyReport) Schedule() string { return j.schedule }

// Run executes one pipeline for today's exchange-local date
func (j *DailyReport) Run(ctx context.Context) error {
	now := time.Now().In(j.loc)
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.loc)

	report, err := j.runner.Run(ctx, date)

	// A degraded report is still the day's result
	if report != nil {
		j.mu.Lock()
		j.latest = report
		j.mu.Unlock()
	}

	if err != nil {
		return fmt.Errorf("daily report run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":   date.Format("2006-01-02"),
		"status": report.Status,
	}).Info("Daily report produced")

	return nil
}

// Latest returns the most recent report, scheduled or manual
func (j *DailyReport) Latest() *contracts.Report {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.latest
}
