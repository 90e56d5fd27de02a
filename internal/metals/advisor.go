package metals

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/internal/strategy"
	"github.com/wonny/alpha/pkg/logger"
	"github.com/wonny/alpha/pkg/retry"
)

// Advisor produces the precious-metals timing call from macro state
// ⭐ SSOT: 금/은 타이밍 판단은 여기서만
type Advisor struct {
	quotes contracts.QuoteProvider
	macro  contracts.MacroProvider

	cfg    strategy.Metals
	policy retry.Policy

	logger *logger.Logger
}

// NewAdvisor creates a new metals advisor
func NewAdvisor(
	quotes contracts.QuoteProvider,
	macro contracts.MacroProvider,
	cfg strategy.Metals,
	policy retry.Policy,
	log *logger.Logger,
) *Advisor {
	return &Advisor{
		quotes: quotes,
		macro:  macro,
		cfg:    cfg,
		policy: policy,
		logger: log.ForStage(contracts.SectionMetalsAdvice),
	}
}

// Advise consumes the classifier's macro output plus the advisor's own price
// data. Dollar-strength and 10-year-yield indicators are mandatory: without
// both, no advice exists.
func (a *Advisor) Advise(ctx context.Context, indicators []contracts.MacroIndicator) (*contracts.MetalsAdvice, error) {
	dollar := findIndicator(indicators, contracts.MacroDollarIndex)
	yield := findIndicator(indicators, contracts.MacroTenYearYield)
	if dollar == nil || yield == nil {
		a.logger.Warn("Missing mandatory macro indicator, no metals advice")
		return nil, contracts.ErrUnavailable
	}

	gold, err := a.fetchQuote(ctx, a.cfg.GoldSymbol)
	if err != nil {
		return nil, err
	}
	silver, err := a.fetchQuote(ctx, a.cfg.SilverSymbol)
	if err != nil {
		return nil, err
	}

	tension := geoTension(indicators)

	advice := &contracts.MetalsAdvice{
		Gold: contracts.MetalCall{
			Symbol: contracts.MetalGold,
			Price:  gold.Price,
			RSI:    gold.RSI,
			Action: a.decide(*dollar, tension, gold.RSI, silver.RSI, gold.RSI),
		},
		Silver: contracts.MetalCall{
			Symbol: contracts.MetalSilver,
			Price:  silver.Price,
			RSI:    silver.RSI,
			Action: a.decide(*dollar, tension, gold.RSI, silver.RSI, silver.RSI),
		},
		DollarIndex:  *dollar,
		TenYearYield: *yield,
	}
	advice.Rationale = a.rationale(advice, tension, *yield)

	a.logger.WithFields(map[string]interface{}{
		"gold":   advice.Gold.Action,
		"silver": advice.Silver.Action,
	}).Info("Metals advice generated")

	return advice, nil
}

// decide applies the ordered rule chain; the first matching rule wins.
// ownRSI only matters for the profit-take leg: a metal that is not itself
// overbought holds while the other takes profit.
func (a *Advisor) decide(dollar contracts.MacroIndicator, tension float64, goldRSI, silverRSI, ownRSI float64) contracts.MetalAction {
	if dollar.Trend == contracts.TrendStrengthening {
		return contracts.MetalAccumulate
	}

	eitherOverbought := goldRSI > a.cfg.RSIOverbought || silverRSI > a.cfg.RSIOverbought
	if tension > a.cfg.GeoTensionThreshold && eitherOverbought {
		if ownRSI > a.cfg.RSIOverbought {
			return contracts.MetalProfitTake
		}
		return contracts.MetalHold
	}

	return contracts.MetalHold
}

// rationale explains the fired rule and carries the yield trend as context
func (a *Advisor) rationale(advice *contracts.MetalsAdvice, tension float64, yield contracts.MacroIndicator) string {
	var b strings.Builder

	switch {
	case advice.DollarIndex.Trend == contracts.TrendStrengthening:
		b.WriteString(fmt.Sprintf(
			"Dollar index strengthening (%.2f from %.2f): inverse-correlation entry opportunity, accumulate.",
			advice.DollarIndex.Value, advice.DollarIndex.Previous))
	case advice.Gold.Action == contracts.MetalProfitTake || advice.Silver.Action == contracts.MetalProfitTake:
		b.WriteString(fmt.Sprintf(
			"Geopolitical tension %.2f above threshold with overbought RSI (gold %.1f, silver %.1f): take profit.",
			tension, advice.Gold.RSI, advice.Silver.RSI))
	default:
		b.WriteString("No dollar-weakness entry and no overbought exit: hold.")
	}

	b.WriteString(fmt.Sprintf(" 10Y yield %s at %.2f.", strings.ToLower(string(yield.Trend)), yield.Value))

	return b.String()
}

// fetchQuote wraps the provider call in the shared retry policy
func (a *Advisor) fetchQuote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	quote, err := retry.Do(ctx, a.policy, "quote "+symbol, func(ctx context.Context) (*contracts.Quote, error) {
		return a.quotes.Quote(ctx, symbol)
	})
	if err != nil {
		a.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Metal quote fetch failed")
		return nil, err
	}
	return quote, nil
}

// geoTension reads the tension proxy from the indicator set; absent means calm
func geoTension(indicators []contracts.MacroIndicator) float64 {
	if ind := findIndicator(indicators, contracts.MacroGeoTension); ind != nil {
		return ind.Value
	}
	return 0
}

func findIndicator(indicators []contracts.MacroIndicator, name string) *contracts.MacroIndicator {
	for i := range indicators {
		if indicators[i].Name == name {
			return &indicators[i]
		}
	}
	return nil
}
