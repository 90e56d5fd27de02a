package delivery

import (
	"context"
	"fmt"
	"os"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/logger"
)

// FilePublisher writes the rendered report to a local markdown file.
// Used by the CLI --output and --dry-run paths instead of GitHub.
type FilePublisher struct {
	path   string
	logger *logger.Logger
}

// NewFilePublisher creates a file publisher
func NewFilePublisher(path string, log *logger.Logger) *FilePublisher {
	return &FilePublisher{path: path, logger: log}
}

// Publish writes the rendered markdown to the configured path
func (p *FilePublisher) Publish(ctx context.Context, report *contracts.Report, rendered string) error {
	if err := os.WriteFile(p.path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	p.logger.WithFields(map[string]interface{}{
		"path":   p.path,
		"status": report.Status,
	}).Info("Report written to file")

	return nil
}
