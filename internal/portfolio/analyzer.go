package portfolio

import (
	"context"
	"fmt"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/internal/strategy"
	"github.com/wonny/alpha/pkg/logger"
	"github.com/wonny/alpha/pkg/retry"
)

// Analyzer classifies each held position into an action signal
// ⭐ SSOT: 보유 포지션 리스크 분류는 여기서만
type Analyzer struct {
	quotes    contracts.QuoteProvider
	sentiment contracts.SentimentProvider

	cfg    strategy.Portfolio
	policy retry.Policy

	logger *logger.Logger
}

// NewAnalyzer creates a new portfolio risk analyzer
func NewAnalyzer(
	quotes contracts.QuoteProvider,
	sentiment contracts.SentimentProvider,
	cfg strategy.Portfolio,
	policy retry.Policy,
	log *logger.Logger,
) *Analyzer {
	return &Analyzer{
		quotes:    quotes,
		sentiment: sentiment,
		cfg:       cfg,
		policy:    policy,
		logger:    log.ForStage(contracts.SectionPortfolioAlerts),
	}
}

// positionInputs is the per-holding data gathered before classification
type positionInputs struct {
	quote     *contracts.Quote
	sentiment float64

	quoteOK     bool
	sentimentOK bool
}

// Analyze annotates every holding with a signal and rationale. Holdings with
// missing inputs are reported as HOLD with the gap named, never dropped.
func (a *Analyzer) Analyze(ctx context.Context, snapshot *contracts.HoldingsSnapshot) ([]contracts.Holding, error) {
	if snapshot == nil || len(snapshot.Holdings) == 0 {
		return nil, nil
	}

	a.logger.WithField("holdings", len(snapshot.Holdings)).Info("Starting portfolio analysis")

	inputs := make([]positionInputs, len(snapshot.Holdings))
	fetchFailures := 0

	for i, h := range snapshot.Holdings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inputs[i] = a.fetchInputs(ctx, h.Symbol)
		if !inputs[i].quoteOK {
			fetchFailures++
		}
	}

	// Every quote lookup failed: no portfolio value exists to weight against
	if fetchFailures == len(snapshot.Holdings) {
		return nil, contracts.ErrUnavailable
	}

	// Total portfolio value from the holdings we could price
	totalValue := 0.0
	for i, h := range snapshot.Holdings {
		if inputs[i].quoteOK {
			totalValue += h.Shares * inputs[i].quote.Price
		}
	}

	analyzed := make([]contracts.Holding, len(snapshot.Holdings))
	for i, h := range snapshot.Holdings {
		analyzed[i] = a.classify(h, inputs[i], totalValue)
	}

	a.logger.WithFields(map[string]interface{}{
		"holdings": len(analyzed),
		"unpriced": fetchFailures,
	}).Info("Portfolio analysis completed")

	return analyzed, nil
}

// fetchInputs gathers quote and sentiment for one symbol. Each failure is
// recorded rather than propagated so the rest of the batch proceeds.
func (a *Analyzer) fetchInputs(ctx context.Context, symbol string) positionInputs {
	var in positionInputs

	quote, err := retry.Do(ctx, a.policy, "quote "+symbol, func(ctx context.Context) (*contracts.Quote, error) {
		return a.quotes.Quote(ctx, symbol)
	})
	if err != nil {
		a.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Quote fetch failed for holding")
	} else {
		in.quote = quote
		in.quoteOK = true
	}

	score, err := retry.Do(ctx, a.policy, "sentiment "+symbol, func(ctx context.Context) (float64, error) {
		return a.sentiment.Sentiment(ctx, symbol)
	})
	if err != nil {
		a.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Sentiment fetch failed for holding")
	} else {
		in.sentiment = score
		in.sentimentOK = true
	}

	return in
}

// classify applies the single-step rule chain to one holding.
// Breach always wins over top-up; indeterminate inputs force HOLD.
func (a *Analyzer) classify(h contracts.Holding, in positionInputs, totalValue float64) contracts.Holding {
	if !in.quoteOK || in.quote.SMA20 <= 0 {
		h.Signal = contracts.SignalHold
		h.Rationale = "indeterminate: current price or SMA unavailable"
		return h
	}
	if !in.sentimentOK {
		h.Signal = contracts.SignalHold
		h.Rationale = "indeterminate: sentiment unavailable"
		return h
	}

	h.CurrentPrice = in.quote.Price
	h.Sentiment = in.sentiment
	h.SMADeviation = in.quote.SMADeviation()
	h.UnrealizedPnL = h.PnLPercent()
	if totalValue > 0 {
		h.Weight = h.MarketValue() / totalValue * 100
	}
	h.UpdateTrailingStop(in.quote.Price)

	// Breach condition takes precedence over everything else
	if h.SMADeviation <= a.cfg.SMABreachPct {
		if h.Weight > a.cfg.ExitWeightPct || h.UnrealizedPnL < a.cfg.ExitPnLPct {
			h.Signal = contracts.SignalExit
			h.Rationale = fmt.Sprintf(
				"SMA breach %.1f%% <= %.1f%% with weight %.1f%% / P&L %.1f%%: exit",
				h.SMADeviation, a.cfg.SMABreachPct, h.Weight, h.UnrealizedPnL)
		} else {
			h.Signal = contracts.SignalHedge
			h.Rationale = fmt.Sprintf(
				"SMA breach %.1f%% <= %.1f%% within size/loss limits: hedge",
				h.SMADeviation, a.cfg.SMABreachPct)
		}
		return h
	}

	if h.Sentiment > a.cfg.TopUpSentimentMin && h.SMADeviation > 0 {
		h.Signal = contracts.SignalTopUp
		h.Rationale = fmt.Sprintf(
			"sentiment %.2f > %.2f with price %.1f%% above SMA: top up",
			h.Sentiment, a.cfg.TopUpSentimentMin, h.SMADeviation)
		return h
	}

	h.Signal = contracts.SignalHold
	h.Rationale = "no breach, no top-up trigger: hold"
	return h
}
