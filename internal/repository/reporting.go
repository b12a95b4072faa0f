package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/assotools/finledger/constants"
)

type reportingRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewReportingRepository(db *DB, logger *slog.Logger) ReportingRepository {
	return &reportingRepository{
		db:     db,
		logger: logger,
	}
}

// SumByType returns summed income and expense amounts for entries dated in
// [from, to). An empty window yields zeros, not an error.
func (r *reportingRepository) SumByType(ctx context.Context, from, to time.Time) (float64, float64, error) {
	var income, expense float64
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN type = $1 THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN type = $2 THEN amount ELSE 0 END), 0) AS expense
		 FROM transactions
		 WHERE date >= $3 AND date < $4`,
		constants.TypeIncome, constants.TypeExpense, from, to,
	).Scan(&income, &expense)
	if err != nil {
		r.logger.Error("failed to sum transactions by type", "error", err)
		return 0, 0, err
	}
	return income, expense, nil
}

// CategorySums returns summed amounts per raw ledger category for one side of
// the ledger. Bucket folding happens above this layer.
func (r *reportingRepository) CategorySums(ctx context.Context, txType string, from, to time.Time) (map[string]float64, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT category, COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE type = $1 AND date >= $2 AND date < $3
		 GROUP BY category`,
		txType, from, to,
	)
	if err != nil {
		r.logger.Error("failed to sum transactions by category", "type", txType, "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var category string
		var sum float64
		if err := rows.Scan(&category, &sum); err != nil {
			return nil, err
		}
		out[category] = sum
	}
	return out, rows.Err()
}
