package holdings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/logger"
)

// Repository reads the snapshot from the portfolio.holdings table.
// Read-only: the pipeline never writes position state back.
// ⭐ SSOT: DB 스냅샷 조회는 여기서만
type Repository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewRepository creates a postgres-backed snapshot provider
func NewRepository(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, logger: log}
}

// Snapshot loads all current holdings. The snapshot timestamp is the
// most recent row update, so one stale row does not hide fresh ones.
func (r *Repository) Snapshot(ctx context.Context) (*contracts.HoldingsSnapshot, error) {
	query := `
		SELECT
			symbol, shares, cost_basis, entry_date, high_water_mark,
			updated_at
		FROM portfolio.holdings
		WHERE shares > 0
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	snapshot := &contracts.HoldingsSnapshot{}

	for rows.Next() {
		var h contracts.Holding
		var updatedAt time.Time

		err := rows.Scan(&h.Symbol, &h.Shares, &h.CostBasis, &h.EntryDate, &h.HighWaterMark, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding row: %w", err)
		}

		if h.HighWaterMark < h.CostBasis {
			h.HighWaterMark = h.CostBasis
		}

		if updatedAt.After(snapshot.UpdatedAt) {
			snapshot.UpdatedAt = updatedAt
		}

		snapshot.Holdings = append(snapshot.Holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	r.logger.WithField("count", len(snapshot.Holdings)).Debug("Loaded holdings snapshot from postgres")

	return snapshot, nil
}
