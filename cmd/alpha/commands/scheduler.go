package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/alpha/internal/api"
	"github.com/wonny/alpha/internal/api/handlers"
	"github.com/wonny/alpha/internal/scheduler"
	"github.com/wonny/alpha/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the digest on its daily schedule",
	Long: `Starts the scheduler daemon. The daily report job fires at the
strategy's local run time in the exchange timezone, and the status API
serves the latest report and job statistics on the configured port.

The daemon runs until Ctrl+C or SIGTERM.

Example:
  go run ./cmd/alpha scheduler
  go run ./cmd/alpha scheduler --run-now`,
	RunE: runSchedulerDaemon,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "trigger one report immediately on startup")
}

func runSchedulerDaemon(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Alpha Scheduler ===")

	p, err := buildPipeline(pipelineOptions{})
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer p.Close()

	spec, err := scheduler.CronSpec(p.strategy.Meta.RunTimeLocal)
	if err != nil {
		return fmt.Errorf("strategy run time: %w", err)
	}

	sched := scheduler.New(p.loc, p.log)
	job := jobs.NewDailyReport(p.orchestrator, spec, p.loc, p.log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	// Status API rides along with the scheduler
	statusHandler := handlers.NewStatusHandler(job, sched, p.snapshot, p.log)
	server := api.New(p.cfg, p.log, api.NewRouter(statusHandler, p.log))

	go func() {
		if err := server.Start(); err != nil {
			p.log.WithError(err).Error("Status API stopped")
		}
	}()

	sched.Start()

	fmt.Println("\n✅ Scheduler started")
	fmt.Printf("\n  daily_report: %s %s (%s)\n", p.strategy.Meta.RunTimeLocal, p.strategy.Meta.Timezone, spec)
	fmt.Printf("  status API:   :%s\n", p.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if schedulerRunNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return fmt.Errorf("run job: %w", err)
		}
		fmt.Println("\n▶ Initial report triggered")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		p.log.WithError(err).Warn("Status API shutdown failed")
	}

	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}
