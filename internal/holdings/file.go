// Package holdings supplies the externally maintained portfolio
// snapshot, from a JSON file or a read-only postgres table.
package holdings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/logger"
)

// FileProvider reads the snapshot from a JSON file on each call, so an
// updated file is picked up without a restart
// ⭐ SSOT: 파일 스냅샷 읽기는 여기서만
type FileProvider struct {
	path   string
	logger *logger.Logger
}

// NewFileProvider creates a file-backed snapshot provider
func NewFileProvider(path string, log *logger.Logger) *FileProvider {
	return &FileProvider{path: path, logger: log}
}

type fileHolding struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	CostBasis     float64 `json:"cost_basis"`
	EntryDate     string  `json:"entry_date"` // 2006-01-02
	HighWaterMark float64 `json:"high_water_mark"`
}

type fileSnapshot struct {
	UpdatedAt time.Time     `json:"updated_at"`
	Holdings  []fileHolding `json:"holdings"`
}

// Snapshot loads and validates the portfolio file
func (p *FileProvider) Snapshot(ctx context.Context) (*contracts.HoldingsSnapshot, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read holdings file: %w", err)
	}

	var raw fileSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse holdings file %s: %w", p.path, err)
	}

	snapshot := &contracts.HoldingsSnapshot{UpdatedAt: raw.UpdatedAt}

	// A file without its own timestamp is as fresh as its last write
	if snapshot.UpdatedAt.IsZero() {
		if info, err := os.Stat(p.path); err == nil {
			snapshot.UpdatedAt = info.ModTime()
		}
	}

	for i, h := range raw.Holdings {
		if h.Symbol == "" || h.Shares <= 0 || h.CostBasis <= 0 {
			return nil, fmt.Errorf("holding %d: symbol, shares and cost_basis are required", i)
		}
		entryDate, err := time.Parse("2006-01-02", h.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("holding %d (%s): invalid entry_date %q", i, h.Symbol, h.EntryDate)
		}
		hwm := h.HighWaterMark
		if hwm < h.CostBasis {
			hwm = h.CostBasis
		}

		snapshot.Holdings = append(snapshot.Holdings, contracts.Holding{
			Symbol:        h.Symbol,
			Shares:        h.Shares,
			CostBasis:     h.CostBasis,
			EntryDate:     entryDate,
			HighWaterMark: hwm,
		})
	}

	p.logger.WithFields(map[string]interface{}{
		"path":  p.path,
		"count": len(snapshot.Holdings),
	}).Debug("Loaded holdings snapshot from file")

	return snapshot, nil
}
