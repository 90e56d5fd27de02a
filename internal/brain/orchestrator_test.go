package brain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/logger"
)

type fakeScanner struct {
	recs  []contracts.Recommendation
	err   error
	delay time.Duration
	calls int
}

func (f *fakeScanner) Scan(ctx context.Context) ([]contracts.Recommendation, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.recs, f.err
}

type fakeRisk struct {
	holdings []contracts.Holding
	err      error
	calls    int
}

func (f *fakeRisk) Analyze(ctx context.Context, snapshot *contracts.HoldingsSnapshot) ([]contracts.Holding, error) {
	f.calls++
	return f.holdings, f.err
}

type fakeClassifier struct {
	events     []contracts.CatalystEvent
	indicators []contracts.MacroIndicator
	err        error
	calls      int
}

func (f *fakeClassifier) Classify(ctx context.Context, refDate time.Time) ([]contracts.CatalystEvent, []contracts.MacroIndicator, error) {
	f.calls++
	return f.events, f.indicators, f.err
}

type fakeAdvisor struct {
	advice *contracts.MetalsAdvice
	err    error
	calls  int
}

func (f *fakeAdvisor) Advise(ctx context.Context, indicators []contracts.MacroIndicator) (*contracts.MetalsAdvice, error) {
	f.calls++
	return f.advice, f.err
}

type fakeHoldings struct {
	snapshot *contracts.HoldingsSnapshot
	err      error
}

func (f *fakeHoldings) Snapshot(ctx context.Context) (*contracts.HoldingsSnapshot, error) {
	return f.snapshot, f.err
}

type fakeCalendar struct {
	nonTrading bool
}

func (f *fakeCalendar) IsNonTradingDay(date time.Time) bool { return f.nonTrading }

func (f *fakeCalendar) EventsNear(ctx context.Context, date time.Time) ([]contracts.CatalystEvent, error) {
	return nil, nil
}

type fakePublisher struct {
	published *contracts.Report
	rendered  string
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, report *contracts.Report, rendered string) error {
	f.published = report
	f.rendered = rendered
	return f.err
}

type fakeNotifier struct {
	summaries []string
}

func (f *fakeNotifier) Notify(ctx context.Context, summary string) error {
	f.summaries = append(f.summaries, summary)
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(r *contracts.Report) string  { return "rendered:" + string(r.Status) }
func (fakeRenderer) Summary(r *contracts.Report) string { return "summary:" + string(r.Status) }

type fixture struct {
	scanner    *fakeScanner
	risk       *fakeRisk
	classifier *fakeClassifier
	advisor    *fakeAdvisor
	holdings   *fakeHoldings
	calendar   *fakeCalendar
	publisher  *fakePublisher
	notifier   *fakeNotifier
}

func newFixture() *fixture {
	return &fixture{
		scanner: &fakeScanner{recs: []contracts.Recommendation{{Symbol: "GILD"}}},
		risk:    &fakeRisk{holdings: []contracts.Holding{{Symbol: "OXY", Signal: contracts.SignalHold}}},
		classifier: &fakeClassifier{
			events: []contracts.CatalystEvent{{Description: "CPI", Bucket: contracts.BucketThisWeek}},
			indicators: []contracts.MacroIndicator{
				{Name: contracts.MacroDollarIndex, Trend: contracts.TrendStrengthening},
				{Name: contracts.MacroTenYearYield, Trend: contracts.TrendNeutral},
			},
		},
		advisor:   &fakeAdvisor{advice: &contracts.MetalsAdvice{Rationale: "accumulate"}},
		holdings:  &fakeHoldings{snapshot: &contracts.HoldingsSnapshot{UpdatedAt: time.Now()}},
		calendar:  &fakeCalendar{},
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
	}
}

func (fx *fixture) orchestrator(deadline time.Duration) *Orchestrator {
	return New(Deps{
		Scanner:    fx.scanner,
		Risk:       fx.risk,
		Classifier: fx.classifier,
		Advisor:    fx.advisor,
		Holdings:   fx.holdings,
		Calendar:   fx.calendar,
		Publisher:  fx.publisher,
		Notifier:   fx.notifier,
		Renderer:   fakeRenderer{},
	}, deadline, 24*time.Hour, logger.Nop())
}

var runDate = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

func TestRun_Complete(t *testing.T) {
	fx := newFixture()

	report, err := fx.orchestrator(time.Minute).Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Status != contracts.StatusComplete {
		t.Errorf("Expected COMPLETE, got %s", report.Status)
	}
	if len(report.Recommendations) != 1 {
		t.Errorf("Expected recommendations populated")
	}
	if len(report.Holdings) != 1 {
		t.Errorf("Expected holdings populated")
	}
	if report.MetalsAdvice == nil {
		t.Error("Expected metals advice populated")
	}
	if fx.publisher.published == nil {
		t.Error("Expected report to be published")
	}
	if len(fx.notifier.summaries) != 1 {
		t.Error("Expected notification sent")
	}
}

func TestRun_MarketClosed(t *testing.T) {
	fx := newFixture()
	fx.calendar.nonTrading = true

	report, err := fx.orchestrator(time.Minute).Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Status != contracts.StatusMarketClosed {
		t.Errorf("Expected MARKET_CLOSED, got %s", report.Status)
	}
	if fx.scanner.calls != 0 || fx.risk.calls != 0 || fx.classifier.calls != 0 || fx.advisor.calls != 0 {
		t.Error("No stage may run on a non-trading day")
	}
	if len(report.Recommendations) != 0 || len(report.Holdings) != 0 {
		t.Error("No stage output may be populated on a non-trading day")
	}
	if fx.publisher.published == nil {
		t.Error("Market-closed report must still be published")
	}
}

func TestRun_ScanFailurePartialRemainingStagesRun(t *testing.T) {
	fx := newFixture()
	fx.scanner.err = contracts.ErrUnavailable
	fx.scanner.recs = nil

	report, err := fx.orchestrator(time.Minute).Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Status != contracts.StatusPartial {
		t.Errorf("Expected PARTIAL, got %s", report.Status)
	}
	if !report.IsUnavailable(contracts.SectionTechnicalScans) {
		t.Error("Expected technical_scans marked unavailable")
	}
	if fx.risk.calls != 1 || fx.classifier.calls != 1 || fx.advisor.calls != 1 {
		t.Error("Remaining stages must still run after a stage failure")
	}
	if report.MetalsAdvice == nil {
		t.Error("Later stages must still populate their sections")
	}
}

func TestRun_MacroFailureBlocksMetals(t *testing.T) {
	fx := newFixture()
	fx.classifier.indicators = nil
	fx.classifier.err = contracts.ErrUnavailable

	report, err := fx.orchestrator(time.Minute).Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !report.IsUnavailable(contracts.SectionMacroIndicators) {
		t.Error("Expected macro_indicators unavailable")
	}
	if !report.IsUnavailable(contracts.SectionMetalsAdvice) {
		t.Error("Metals advice must be blocked without macro input")
	}
	if fx.advisor.calls != 0 {
		t.Error("Advisor must not be called without indicators")
	}
}

func TestRun_HoldingsSnapshotFailure(t *testing.T) {
	fx := newFixture()
	fx.holdings.err = errors.New("db down")

	report, err := fx.orchestrator(time.Minute).Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !report.IsUnavailable(contracts.SectionPortfolioAlerts) {
		t.Error("Expected portfolio_alerts unavailable")
	}
	if fx.risk.calls != 0 {
		t.Error("Risk engine must not run without a snapshot")
	}
}

func TestRun_StaleSnapshotFlagged(t *testing.T) {
	fx := newFixture()
	fx.holdings.snapshot = &contracts.HoldingsSnapshot{UpdatedAt: time.Now().Add(-30 * time.Hour)}

	report, err := fx.orchestrator(time.Minute).Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !report.StaleHoldings {
		t.Error("Expected stale holdings flag")
	}
	if len(report.Holdings) != 1 {
		t.Error("Stale snapshot must still be analyzed")
	}
	if report.Status != contracts.StatusComplete {
		t.Errorf("Staleness alone must not degrade status, got %s", report.Status)
	}
}

func TestRun_DeadlineAbandonsRemainingStages(t *testing.T) {
	fx := newFixture()
	fx.scanner.delay = 200 * time.Millisecond // outlives the 50ms budget

	report, err := fx.orchestrator(50 * time.Millisecond).Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report == nil {
		t.Fatal("Report must always be returned")
	}
	if report.Status != contracts.StatusPartial {
		t.Errorf("Expected PARTIAL after deadline, got %s", report.Status)
	}

	for _, section := range []string{
		contracts.SectionPortfolioAlerts,
		contracts.SectionCatalysts,
		contracts.SectionMacroIndicators,
		contracts.SectionMetalsAdvice,
	} {
		if !report.IsUnavailable(section) {
			t.Errorf("Expected %s abandoned after deadline", section)
		}
	}

	if fx.publisher.published == nil {
		t.Error("Abandoned run must still publish")
	}
}

func TestRun_PublishFailureStillReturnsReport(t *testing.T) {
	fx := newFixture()
	fx.publisher.err = errors.New("api down")

	report, err := fx.orchestrator(time.Minute).Run(context.Background(), runDate)
	if err == nil {
		t.Error("Expected publish error surfaced")
	}
	if report == nil {
		t.Fatal("Report must be returned even when publish fails")
	}
	if report.Status != contracts.StatusComplete {
		t.Errorf("Publish failure must not change report status, got %s", report.Status)
	}
}
