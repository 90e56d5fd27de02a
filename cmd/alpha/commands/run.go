package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily digest pipeline once",
	Long: `Runs one full digest pipeline for a single trading day:
technical scans, portfolio alerts, catalyst/macro classification and
metals advice, then publishes the markdown report.

Flags:
  --date           Run date (YYYY-MM-DD, default: today in exchange time)
  --output         Write the report to this file instead of GitHub
  --dry-run        Skip all external delivery, write report.md locally
  --notify         Send the Telegram summary even on a dry run
  --market-closed  Force the non-trading-day short circuit

Example:
  go run ./cmd/alpha run
  go run ./cmd/alpha run --date 2026-08-24 --dry-run
  go run ./cmd/alpha run --output out/digest.md --notify`,
	RunE: runPipeline,
}

var (
	runDate         string
	runOutput       string
	runDryRun       bool
	runNotify       bool
	runMarketClosed bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "run date (YYYY-MM-DD, default: today)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "write the report to this file instead of GitHub")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "skip external delivery, write report.md locally")
	runCmd.Flags().BoolVar(&runNotify, "notify", false, "send the Telegram summary even on a dry run")
	runCmd.Flags().BoolVar(&runMarketClosed, "market-closed", false, "force the non-trading-day short circuit")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(pipelineOptions{
		outputPath:  runOutput,
		dryRun:      runDryRun,
		notify:      runNotify,
		forceClosed: runMarketClosed,
	})
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer p.Close()

	// Run dates are exchange-local midnights
	var date time.Time
	if runDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", runDate, p.loc)
		if err != nil {
			return fmt.Errorf("invalid date format: %w", err)
		}
		date = parsed
	} else {
		now := time.Now().In(p.loc)
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.loc)
	}

	fmt.Println("=== Alpha Daily Digest ===")
	fmt.Printf("\n📅 Run Date: %s (%s)\n", date.Format("2006-01-02"), p.strategy.Meta.Timezone)
	fmt.Printf("📈 Strategy: %s (%s)\n", p.snapshot.StrategyID, p.snapshot.ConfigHash[:12])
	fmt.Printf("🔧 Dry Run: %v\n\n", runDryRun)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := p.orchestrator.Run(ctx, date)
	if err != nil {
		// The report may still have been produced and written locally
		if report != nil {
			fmt.Printf("\n⚠️  Pipeline finished with delivery failure (status: %s)\n", report.Status)
		}
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	fmt.Println("✅ Pipeline Run Completed")
	fmt.Println()
	fmt.Printf("Status: %s\n", report.Status)
	fmt.Printf("Ideas: %d\n", len(report.Recommendations))
	fmt.Printf("Holdings analyzed: %d\n", len(report.Holdings))
	fmt.Printf("Catalysts: %d\n", len(report.Catalysts))
	fmt.Printf("Macro indicators: %d\n", len(report.MacroIndicators))
	if report.MetalsAdvice != nil {
		fmt.Printf("Metals: gold %s / silver %s\n", report.MetalsAdvice.Gold.Action, report.MetalsAdvice.Silver.Action)
	}

	if report.StaleHoldings {
		fmt.Printf("\n⚠️  Holdings snapshot is %s old\n", report.SnapshotAge)
	}
	if len(report.Unavailable) > 0 {
		fmt.Println("\nUnavailable sections:")
		for section, reason := range report.Unavailable {
			fmt.Printf("  - %s: %s\n", section, reason)
		}
	}

	return nil
}
