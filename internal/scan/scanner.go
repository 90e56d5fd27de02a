package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/internal/strategy"
	"github.com/wonny/alpha/pkg/logger"
	"github.com/wonny/alpha/pkg/retry"
)

// Scanner screens the configured universes and emits ranked trade ideas
// ⭐ SSOT: 기술적 스캔 로직은 여기서만
type Scanner struct {
	quotes contracts.QuoteProvider
	scorer Scorer

	universes strategy.Universes
	cfg       strategy.Scan
	policy    retry.Policy

	logger *logger.Logger
}

// NewScanner creates a new technical scanner
func NewScanner(
	quotes contracts.QuoteProvider,
	scorer Scorer,
	universes strategy.Universes,
	cfg strategy.Scan,
	policy retry.Policy,
	log *logger.Logger,
) *Scanner {
	return &Scanner{
		quotes:    quotes,
		scorer:    scorer,
		universes: universes,
		cfg:       cfg,
		policy:    policy,
		logger:    log.ForStage(contracts.SectionTechnicalScans),
	}
}

// candidate pairs a symbol with its universe tag for the fan-out
type candidate struct {
	symbol   string
	universe string
}

// Scan screens every universe concurrently and returns at most
// MaxRecommendations ideas ordered by descending confidence.
// A failed lookup for one symbol never aborts the rest of the batch.
func (s *Scanner) Scan(ctx context.Context) ([]contracts.Recommendation, error) {
	var candidates []candidate
	for _, u := range s.universes.All() {
		for _, symbol := range u.Symbols {
			candidates = append(candidates, candidate{symbol: symbol, universe: u.Tag})
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"symbols":     len(candidates),
		"concurrency": s.cfg.MaxConcurrency,
	}).Info("Starting technical scan")

	var (
		mu       sync.Mutex
		results  []contracts.Recommendation
		fetchErr int
	)

	sem := make(chan struct{}, s.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for _, c := range candidates {
		wg.Add(1)
		sem <- struct{}{}

		go func(c candidate) {
			defer wg.Done()
			defer func() { <-sem }()

			rec, err := s.scanOne(ctx, c)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fetchErr++
				return
			}
			if rec != nil {
				results = append(results, *rec)
			}
		}(c)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Every lookup failed: the section has nothing trustworthy to say.
	// Gate exclusions are not failures and still yield a (possibly empty) result.
	if fetchErr == len(candidates) && len(candidates) > 0 {
		return nil, contracts.ErrUnavailable
	}

	// Descending confidence, alphabetical symbol on ties
	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].Symbol < results[j].Symbol
	})

	if len(results) > s.cfg.MaxRecommendations {
		results = results[:s.cfg.MaxRecommendations]
	}

	s.logger.WithFields(map[string]interface{}{
		"scanned":  len(candidates),
		"emitted":  len(results),
		"failures": fetchErr,
	}).Info("Technical scan completed")

	return results, nil
}

// scanOne fetches one quote and applies the gates. A nil, nil return means
// the candidate was excluded by a gate — silently, not as an error.
func (s *Scanner) scanOne(ctx context.Context, c candidate) (*contracts.Recommendation, error) {
	quote, err := retry.Do(ctx, s.policy, "quote "+c.symbol, func(ctx context.Context) (*contracts.Quote, error) {
		return s.quotes.Quote(ctx, c.symbol)
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": c.symbol,
			"error":  err.Error(),
		}).Warn("Quote fetch failed, skipping symbol")
		return nil, err
	}

	if quote.Halted {
		s.logger.WithField("symbol", c.symbol).Warn("Instrument halted, skipping")
		return nil, nil
	}

	sig, pass := s.rsiGate(quote)
	if !pass {
		return nil, nil
	}

	volumeRatio := quote.VolumeRatio()
	if volumeRatio <= s.cfg.VolumeRatioMin {
		return nil, nil
	}

	// Biotech floor: unknown market cap fails, never passes by default
	if c.universe == "biotech" {
		if quote.MarketCap == nil || *quote.MarketCap < s.cfg.BiotechMarketCapMin {
			return nil, nil
		}
	}

	entry := quote.Price
	rec := &contracts.Recommendation{
		Symbol:      c.symbol,
		Universe:    c.universe,
		Entry:       entry,
		Target:      s.scorer.Target(sig, entry, quote.RSI, volumeRatio),
		StopLoss:    entry * contracts.StopLossRatio,
		RSI:         quote.RSI,
		VolumeRatio: volumeRatio,
		Confidence:  s.scorer.Confidence(sig, quote.RSI, volumeRatio),
		MarketCap:   quote.MarketCap,
		GeneratedAt: time.Now(),
	}

	// An idea with a broken risk envelope is dropped, never emitted partially
	if err := rec.Validate(); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": c.symbol,
			"error":  err.Error(),
		}).Warn("Dropping candidate with invalid risk envelope")
		return nil, nil
	}

	return rec, nil
}

// rsiGate applies the two-sided RSI rule: deep oversold, or an upward
// crossover through the midline since the prior session.
func (s *Scanner) rsiGate(q *contracts.Quote) (SignalType, bool) {
	if q.RSI < s.cfg.RSIOversold {
		return SignalOversold, true
	}
	if q.RSI >= s.cfg.RSICrossover && q.PrevRSI < s.cfg.RSICrossover {
		return SignalCrossover, true
	}
	return "", false
}
