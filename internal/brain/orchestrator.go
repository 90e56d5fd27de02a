package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/logger"
)

// Renderer turns a finished report into its published forms
type Renderer interface {
	Render(r *contracts.Report) string
	Summary(r *contracts.Report) string
}

// Orchestrator runs the four decision stages in fixed order under a hard
// wall-clock budget and owns all mutation of the report
// ⭐ SSOT: 파이프라인 실행 순서와 부분 실패 처리는 여기서만
type Orchestrator struct {
	scanner    contracts.SignalScanner
	risk       contracts.RiskAnalyzer
	classifier contracts.EventClassifier
	advisor    contracts.MetalsAdvisor

	holdings  contracts.HoldingsProvider
	calendar  contracts.CalendarProvider
	publisher contracts.Publisher
	notifier  contracts.Notifier
	renderer  Renderer

	deadline       time.Duration
	snapshotMaxAge time.Duration

	logger *logger.Logger
}

// Deps bundles the orchestrator's collaborators
type Deps struct {
	Scanner    contracts.SignalScanner
	Risk       contracts.RiskAnalyzer
	Classifier contracts.EventClassifier
	Advisor    contracts.MetalsAdvisor

	Holdings  contracts.HoldingsProvider
	Calendar  contracts.CalendarProvider
	Publisher contracts.Publisher
	Notifier  contracts.Notifier
	Renderer  Renderer
}

// New creates a new orchestrator
func New(deps Deps, deadline, snapshotMaxAge time.Duration, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		scanner:        deps.Scanner,
		risk:           deps.Risk,
		classifier:     deps.Classifier,
		advisor:        deps.Advisor,
		holdings:       deps.Holdings,
		calendar:       deps.Calendar,
		publisher:      deps.Publisher,
		notifier:       deps.Notifier,
		renderer:       deps.Renderer,
		deadline:       deadline,
		snapshotMaxAge: snapshotMaxAge,
		logger:         log.WithField("component", "orchestrator"),
	}
}

// Run executes one daily pipeline for the given reference date. The report
// is always returned, even degraded or abandoned, so a partial result can
// still be published before the external deadline.
func (o *Orchestrator) Run(ctx context.Context, date time.Time) (*contracts.Report, error) {
	report := contracts.NewReport(date)
	started := time.Now()

	o.logger.WithField("date", date.Format("2006-01-02")).Info("Pipeline run started")

	// Non-trading day short-circuits the whole pipeline
	if o.calendar.IsNonTradingDay(date) {
		report.Status = contracts.StatusMarketClosed
		report.GeneratedAt = time.Now()
		o.logger.Info("Non-trading day, pipeline short-circuited")
		return report, o.publish(ctx, report)
	}

	runCtx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	o.runStages(runCtx, report, date)

	report.GeneratedAt = time.Now()

	o.logger.WithFields(map[string]interface{}{
		"status":      report.Status,
		"unavailable": len(report.Unavailable),
		"duration":    time.Since(started),
	}).Info("Pipeline run finished")

	// Publish on the parent context: an expired run budget must not stop
	// the degraded report from going out.
	return report, o.publish(ctx, report)
}

// runStages executes the four stages in dependency order, abandoning the
// remainder once the run budget is spent.
func (o *Orchestrator) runStages(ctx context.Context, report *contracts.Report, date time.Time) {
	// Stage 1: technical scans
	if o.expired(ctx, report, contracts.SectionTechnicalScans) {
		o.abandon(report, contracts.SectionPortfolioAlerts, contracts.SectionCatalysts,
			contracts.SectionMacroIndicators, contracts.SectionMetalsAdvice)
		return
	}
	if recs, err := o.scanner.Scan(ctx); err != nil {
		report.MarkUnavailable(contracts.SectionTechnicalScans, fmt.Sprintf("scan failed: %v", err))
		o.logger.WithError(err).Warn("Technical scan unavailable")
	} else {
		report.Recommendations = recs
	}

	// Stage 2: portfolio alerts
	if o.expired(ctx, report, contracts.SectionPortfolioAlerts) {
		o.abandon(report, contracts.SectionCatalysts, contracts.SectionMacroIndicators, contracts.SectionMetalsAdvice)
		return
	}
	o.runPortfolioStage(ctx, report)

	// Stage 3: catalysts + macro
	if o.expired(ctx, report, contracts.SectionCatalysts) {
		o.abandon(report, contracts.SectionMacroIndicators, contracts.SectionMetalsAdvice)
		return
	}
	events, indicators, err := o.classifier.Classify(ctx, date)
	if err != nil {
		if events == nil {
			report.MarkUnavailable(contracts.SectionCatalysts, fmt.Sprintf("classification failed: %v", err))
		}
		if indicators == nil {
			report.MarkUnavailable(contracts.SectionMacroIndicators, fmt.Sprintf("classification failed: %v", err))
		}
		o.logger.WithError(err).Warn("Catalyst/macro classification degraded")
	}
	report.Catalysts = events
	report.MacroIndicators = indicators

	// Stage 4: metals, conditioned on the classifier's macro output
	if o.expired(ctx, report, contracts.SectionMetalsAdvice) {
		return
	}
	if len(indicators) == 0 {
		report.MarkUnavailable(contracts.SectionMetalsAdvice, "macro indicators unavailable")
		return
	}
	if advice, err := o.advisor.Advise(ctx, indicators); err != nil {
		report.MarkUnavailable(contracts.SectionMetalsAdvice, fmt.Sprintf("advice failed: %v", err))
		o.logger.WithError(err).Warn("Metals advice unavailable")
	} else {
		report.MetalsAdvice = advice
	}
}

// runPortfolioStage loads the snapshot, flags staleness and runs the risk engine
func (o *Orchestrator) runPortfolioStage(ctx context.Context, report *contracts.Report) {
	snapshot, err := o.holdings.Snapshot(ctx)
	if err != nil {
		report.MarkUnavailable(contracts.SectionPortfolioAlerts, fmt.Sprintf("holdings snapshot failed: %v", err))
		o.logger.WithError(err).Warn("Holdings snapshot unavailable")
		return
	}

	if age := snapshot.Age(time.Now()); age > o.snapshotMaxAge {
		report.StaleHoldings = true
		report.SnapshotAge = age
		o.logger.WithField("age", age).Warn("Holdings snapshot is stale, using anyway")
	}

	analyzed, err := o.risk.Analyze(ctx, snapshot)
	if err != nil {
		report.MarkUnavailable(contracts.SectionPortfolioAlerts, fmt.Sprintf("analysis failed: %v", err))
		o.logger.WithError(err).Warn("Portfolio analysis unavailable")
		return
	}

	report.Holdings = analyzed
}

// expired marks the named section abandoned when the run budget is spent
func (o *Orchestrator) expired(ctx context.Context, report *contracts.Report, section string) bool {
	if ctx.Err() == nil {
		return false
	}
	report.MarkUnavailable(section, "abandoned: run deadline exceeded")
	o.logger.WithField("section", section).Warn("Run deadline exceeded, abandoning stage")
	return true
}

// abandon marks every remaining section unavailable in one pass
func (o *Orchestrator) abandon(report *contracts.Report, sections ...string) {
	for _, s := range sections {
		report.MarkUnavailable(s, "abandoned: run deadline exceeded")
	}
}

// publish hands the finished report to the publisher and notifier.
// Delivery failures degrade to errors but never discard the report.
func (o *Orchestrator) publish(ctx context.Context, report *contracts.Report) error {
	rendered := o.renderer.Render(report)

	if err := o.publisher.Publish(ctx, report, rendered); err != nil {
		o.logger.WithError(err).Error("Report publish failed")
		return fmt.Errorf("publish failed: %w", err)
	}

	if o.notifier != nil {
		if err := o.notifier.Notify(ctx, o.renderer.Summary(report)); err != nil {
			// Notification is best effort
			o.logger.WithError(err).Warn("Notification failed")
		}
	}

	return nil
}
