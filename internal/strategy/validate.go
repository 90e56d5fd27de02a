package strategy

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if err := validateHHMM(cfg.Meta.RunTimeLocal); err != nil {
		return ValidationError{"meta.run_time_local", err.Error()}
	}
	if err := validateHHMM(cfg.Meta.PublishByLocal); err != nil {
		return ValidationError{"meta.publish_by_local", err.Error()}
	}

	// run_time < publish_by
	runTime, _ := time.Parse("15:04", cfg.Meta.RunTimeLocal)
	publishBy, _ := time.Parse("15:04", cfg.Meta.PublishByLocal)
	if !runTime.Before(publishBy) {
		return ValidationError{"meta", "run_time_local must be before publish_by_local"}
	}

	// === Universes ===
	if cfg.Universes.Count() == 0 {
		return ValidationError{"universes", "at least one universe must list symbols"}
	}

	// === Scan ===
	if cfg.Scan.RSIOversold <= 0 || cfg.Scan.RSIOversold >= 100 {
		return ValidationError{"scan.rsi_oversold", "must be in (0, 100)"}
	}
	if cfg.Scan.RSICrossover <= cfg.Scan.RSIOversold || cfg.Scan.RSICrossover >= 100 {
		return ValidationError{"scan.rsi_crossover", "must be in (rsi_oversold, 100)"}
	}
	if cfg.Scan.VolumeRatioMin <= 1.0 {
		return ValidationError{"scan.volume_ratio_min", "must be > 1.0"}
	}
	if cfg.Scan.BiotechMarketCapMin <= 0 {
		return ValidationError{"scan.biotech_marketcap_min", "must be > 0"}
	}
	if cfg.Scan.MaxRecommendations < 1 {
		return ValidationError{"scan.max_recommendations", "must be >= 1"}
	}
	if cfg.Scan.MaxConcurrency < 1 {
		return ValidationError{"scan.max_concurrency", "must be >= 1"}
	}

	// === Portfolio ===
	if cfg.Portfolio.SMABreachPct >= 0 {
		return ValidationError{"portfolio.sma_breach_pct", "must be negative"}
	}
	if cfg.Portfolio.ExitWeightPct <= 0 || cfg.Portfolio.ExitWeightPct > 100 {
		return ValidationError{"portfolio.exit_weight_pct", "must be in (0, 100]"}
	}
	if cfg.Portfolio.ExitPnLPct >= 0 {
		return ValidationError{"portfolio.exit_pnl_pct", "must be negative"}
	}
	if cfg.Portfolio.TopUpSentimentMin <= 0 || cfg.Portfolio.TopUpSentimentMin > 1 {
		return ValidationError{"portfolio.topup_sentiment_min", "must be in (0, 1]"}
	}

	// === Catalyst ===
	if cfg.Catalyst.WeekHorizonDays < 1 {
		return ValidationError{"catalyst.week_horizon_days", "must be >= 1"}
	}
	if cfg.Catalyst.LongHorizonDays <= cfg.Catalyst.WeekHorizonDays {
		return ValidationError{"catalyst.long_horizon_days", "must exceed week_horizon_days"}
	}
	if cfg.Catalyst.TrendDeadBandPct <= 0 {
		return ValidationError{"catalyst.trend_deadband_pct", "must be > 0"}
	}
	if len(cfg.Catalyst.MacroSeries) == 0 {
		return ValidationError{"catalyst.macro_series", "required"}
	}

	// === Metals ===
	if cfg.Metals.RSIOverbought <= 50 || cfg.Metals.RSIOverbought >= 100 {
		return ValidationError{"metals.rsi_overbought", "must be in (50, 100)"}
	}
	if cfg.Metals.GeoTensionThreshold <= 0 || cfg.Metals.GeoTensionThreshold > 1 {
		return ValidationError{"metals.geo_tension_threshold", "must be in (0, 1]"}
	}
	if cfg.Metals.GoldSymbol == "" || cfg.Metals.SilverSymbol == "" {
		return ValidationError{"metals", "gold_symbol and silver_symbol required"}
	}

	return nil
}

// === Helper Functions ===

func validateHHMM(s string) error {
	re := regexp.MustCompile(`^\d{2}:\d{2}$`)
	if !re.MatchString(s) {
		return errors.New("must be HH:MM format")
	}
	_, err := time.Parse("15:04", s)
	return err
}
