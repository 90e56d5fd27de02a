package commands

import (
	"fmt"
	"time"

	"github.com/wonny/alpha/internal/brain"
	"github.com/wonny/alpha/internal/calendar"
	"github.com/wonny/alpha/internal/catalyst"
	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/internal/delivery"
	"github.com/wonny/alpha/internal/external/alphavantage"
	"github.com/wonny/alpha/internal/external/finnhub"
	"github.com/wonny/alpha/internal/external/fred"
	"github.com/wonny/alpha/internal/external/nasdaq"
	"github.com/wonny/alpha/internal/holdings"
	"github.com/wonny/alpha/internal/metals"
	"github.com/wonny/alpha/internal/portfolio"
	"github.com/wonny/alpha/internal/report"
	"github.com/wonny/alpha/internal/scan"
	"github.com/wonny/alpha/internal/strategy"
	"github.com/wonny/alpha/pkg/config"
	"github.com/wonny/alpha/pkg/database"
	"github.com/wonny/alpha/pkg/httputil"
	"github.com/wonny/alpha/pkg/logger"
	"github.com/wonny/alpha/pkg/redis"
	"github.com/wonny/alpha/pkg/retry"
)

// pipelineOptions carries the per-command overrides
type pipelineOptions struct {
	// Write the rendered report to this file instead of GitHub
	outputPath string
	// Skip external delivery entirely (implies file output)
	dryRun bool
	// Send the Telegram summary even on a dry run
	notify bool
	// Treat the run date as a non-trading day
	forceClosed bool
}

// pipeline bundles everything one command needs to run the digest
type pipeline struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategy.Config
	snapshot *strategy.DecisionSnapshot
	loc      *time.Location

	orchestrator *brain.Orchestrator

	redisClient *redis.Client
	db          *database.DB
}

// Close releases held connections
func (p *pipeline) Close() {
	if p.db != nil {
		p.db.Close()
	}
	if p.redisClient != nil {
		p.redisClient.Close()
	}
}

// buildPipeline wires the full dependency graph from config
// ⭐ SSOT: 파이프라인 조립은 여기서만
func buildPipeline(opts pipelineOptions) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	strategyCfg, yamlData, err := strategy.Load(cfg.Pipeline.StrategyPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}

	snapshot, err := strategy.NewDecisionSnapshot(strategyCfg, yamlData)
	if err != nil {
		return nil, fmt.Errorf("hash strategy config: %w", err)
	}

	loc, err := time.LoadLocation(strategyCfg.Meta.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", strategyCfg.Meta.Timezone, err)
	}

	log.WithFields(map[string]interface{}{
		"strategy":    snapshot.StrategyID,
		"config_hash": snapshot.ConfigHash[:12],
	}).Info("Strategy loaded")

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "alpha")
	rateLimiter := redis.NewRateLimiter(redisClient, "alpha")

	// One HTTP client per provider: Alpha Vantage additionally goes
	// through the shared Redis window so concurrent processes respect
	// the free-tier limit together.
	avHTTP := httputil.New(log).WithRateLimiter(rateLimiter, redis.RateLimitConfig{
		Key:    "alphavantage",
		Limit:  cfg.AlphaVantage.RateLimit,
		Window: cfg.AlphaVantage.RateWindow,
	})
	quotes := alphavantage.NewClient(cfg.AlphaVantage, avHTTP, cache, log)

	macro := fred.NewClient(cfg.FRED, httputil.New(log), log)
	sentiment := finnhub.NewClient(cfg.Finnhub, httputil.New(log), log)
	earnings := nasdaq.NewClient(httputil.New(log), log)

	holidays, err := calendar.LoadHolidays(cfg.Pipeline.HolidaysPath)
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	scheduled, err := calendar.LoadScheduledEvents(cfg.Pipeline.EventsPath)
	if err != nil {
		return nil, fmt.Errorf("load scheduled events: %w", err)
	}

	// Earnings are scraped from today through the end of the week bucket
	cal := calendar.NewProvider(holidays, earnings, scheduled, strategyCfg.Catalyst.WeekHorizonDays+1, log)

	p := &pipeline{
		cfg:         cfg,
		log:         log,
		strategy:    strategyCfg,
		snapshot:    snapshot,
		loc:         loc,
		redisClient: redisClient,
	}

	// Holdings: postgres when configured, otherwise the local file
	var holdingsProvider contracts.HoldingsProvider
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		p.db = db
		holdingsProvider = holdings.NewRepository(db.Pool, log)
	} else {
		holdingsProvider = holdings.NewFileProvider(cfg.Pipeline.HoldingsPath, log)
	}

	policy := retry.Policy{
		MaxAttempts: cfg.Pipeline.MaxRetries,
		BaseDelay:   cfg.Pipeline.RetryBaseDelay,
		MaxDelay:    cfg.Pipeline.RetryMaxDelay,
	}

	var calProvider contracts.CalendarProvider = cal
	if opts.forceClosed {
		calProvider = closedCalendar{cal}
	}

	deps := brain.Deps{
		Scanner:    scan.NewScanner(quotes, scan.NewDefaultScorer(strategyCfg.Scan), strategyCfg.Universes, strategyCfg.Scan, policy, log),
		Risk:       portfolio.NewAnalyzer(quotes, sentiment, strategyCfg.Portfolio, policy, log),
		Classifier: catalyst.NewClassifier(calProvider, macro, strategyCfg.Catalyst, policy, log),
		Advisor:    metals.NewAdvisor(quotes, macro, strategyCfg.Metals, policy, log),
		Holdings:   holdingsProvider,
		Calendar:   calProvider,
		Publisher:  buildPublisher(cfg, opts, log),
		Notifier:   buildNotifier(cfg, opts, log),
		Renderer:   report.NewMarkdownRenderer(),
	}

	p.orchestrator = brain.New(deps, cfg.Pipeline.Deadline, cfg.Pipeline.SnapshotMaxAge, log)

	return p, nil
}

// buildPublisher picks GitHub when configured, a local file otherwise
func buildPublisher(cfg *config.Config, opts pipelineOptions, log *logger.Logger) contracts.Publisher {
	path := opts.outputPath
	if path == "" {
		path = "report.md"
	}

	if opts.dryRun || opts.outputPath != "" {
		return delivery.NewFilePublisher(path, log)
	}
	if cfg.GitHub.Token != "" && cfg.GitHub.Repository != "" {
		return delivery.NewGitHubPublisher(cfg.GitHub, httputil.New(log), log)
	}

	log.Warn("GitHub not configured, writing report to local file")
	return delivery.NewFilePublisher(path, log)
}

// buildNotifier returns nil when Telegram is not configured or delivery
// is suppressed; the orchestrator treats notification as optional.
func buildNotifier(cfg *config.Config, opts pipelineOptions, log *logger.Logger) contracts.Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		return nil
	}
	if opts.dryRun && !opts.notify {
		return nil
	}
	return delivery.NewTelegramNotifier(cfg.Telegram, httputil.New(log), log)
}

// closedCalendar forces every date to read as non-trading
type closedCalendar struct {
	contracts.CalendarProvider
}

func (closedCalendar) IsNonTradingDay(time.Time) bool { return true }
