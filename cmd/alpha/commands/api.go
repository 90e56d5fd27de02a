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
	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/internal/strategy"
	"github.com/wonny/alpha/pkg/config"
	"github.com/wonny/alpha/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the status API without the scheduler",
	Long: `Starts the status API standalone. Without the scheduler there is
no report producer, so /api/report/latest and /api/scheduler/stats
answer 404 until a scheduler process exists; /health and /api/strategy
always work.

Example:
  go run ./cmd/alpha api`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

// noReports is the standalone API's empty report source
type noReports struct{}

func (noReports) Latest() *contracts.Report { return nil }

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	strategyCfg, yamlData, err := strategy.Load(cfg.Pipeline.StrategyPath)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}
	snapshot, err := strategy.NewDecisionSnapshot(strategyCfg, yamlData)
	if err != nil {
		return fmt.Errorf("hash strategy config: %w", err)
	}

	statusHandler := handlers.NewStatusHandler(noReports{}, nil, snapshot, log)
	server := api.New(cfg, log, api.NewRouter(statusHandler, log))

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Error("API server stopped")
		}
	}()

	fmt.Printf("✅ Status API listening on :%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
