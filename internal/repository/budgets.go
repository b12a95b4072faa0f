package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
)

const budgetColumns = `id, year, total_budget, target_events, target_revenue, target_margin,
	created_at, updated_at`

const budgetCategoryColumns = `id, budget_id, name, allocated_amount, spent_amount, notes,
	created_at, updated_at`

type budgetRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewBudgetRepository(db *DB, logger *slog.Logger) BudgetRepository {
	return &budgetRepository{
		db:     db,
		logger: logger,
	}
}

func (r *budgetRepository) List(ctx context.Context) ([]*entity.Budget, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets ORDER BY year DESC`)
	if err != nil {
		r.logger.Error("failed to list budgets", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range out {
		cats, err := r.listCategories(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.Categories = cats
	}
	return out, nil
}

func (r *budgetRepository) Get(ctx context.Context, id string) (*entity.Budget, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)

	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NotFoundErrorf("budget %s", id)
		}
		r.logger.Error("failed to get budget", "id", id, "error", err)
		return nil, err
	}

	cats, err := r.listCategories(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Categories = cats
	return b, nil
}

func (r *budgetRepository) listCategories(ctx context.Context, budgetID string) ([]entity.BudgetCategory, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT `+budgetCategoryColumns+` FROM budget_categories WHERE budget_id = $1 ORDER BY name`,
		budgetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make([]entity.BudgetCategory, 0)
	for rows.Next() {
		var c entity.BudgetCategory
		var notes sql.NullString
		if err := rows.Scan(&c.ID, &c.BudgetID, &c.Name, &c.AllocatedAmount, &c.SpentAmount, &notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Notes = nullStr(notes)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Create writes the budget and its category envelopes as one atomic unit.
func (r *budgetRepository) Create(ctx context.Context, b *entity.Budget) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Year, b.TotalBudget, b.TargetEvents, b.TargetRevenue, b.TargetMargin,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert budget", "id", b.ID, "error", err)
		return err
	}

	if err := insertBudgetCategories(ctx, tx, b.Categories); err != nil {
		r.logger.Error("failed to insert budget categories", "id", b.ID, "error", err)
		return err
	}
	return tx.Commit()
}

// Update rewrites the budget row. When replaceCategories is set every prior
// category row is discarded and replaced; accumulated spent_amount on the old
// rows is lost. This is the documented replace-collection semantic, not a merge.
func (r *budgetRepository) Update(ctx context.Context, b *entity.Budget, replaceCategories bool) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE budgets SET
			year = $2, total_budget = $3, target_events = $4, target_revenue = $5,
			target_margin = $6, updated_at = $7
		 WHERE id = $1`,
		b.ID, b.Year, b.TotalBudget, b.TargetEvents, b.TargetRevenue, b.TargetMargin, b.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update budget", "id", b.ID, "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundErrorf("budget %s", b.ID)
	}

	if replaceCategories {
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_categories WHERE budget_id = $1`, b.ID); err != nil {
			return err
		}
		if err := insertBudgetCategories(ctx, tx, b.Categories); err != nil {
			r.logger.Error("failed to replace budget categories", "id", b.ID, "error", err)
			return err
		}
	}
	return tx.Commit()
}

func (r *budgetRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_categories WHERE budget_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id); err != nil {
		r.logger.Error("failed to delete budget", "id", id, "error", err)
		return err
	}
	return tx.Commit()
}

func (r *budgetRepository) UpdateCategory(ctx context.Context, c *entity.BudgetCategory) error {
	res, err := r.db.SQL.ExecContext(ctx,
		`UPDATE budget_categories SET
			name = $2, allocated_amount = $3, spent_amount = $4, notes = $5, updated_at = $6
		 WHERE id = $1`,
		c.ID, c.Name, c.AllocatedAmount, c.SpentAmount, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update budget category", "id", c.ID, "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundErrorf("budget category %s", c.ID)
	}
	return nil
}

// SpentByCategory is the computed view over the ledger: validated and
// reconciled expense entries summed per category name for one fiscal year.
// It is never written back to spent_amount.
func (r *budgetRepository) SpentByCategory(ctx context.Context, year int) (map[string]float64, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT category, COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE type = $1 AND fiscal_year = $2 AND status IN ($3, $4)
		 GROUP BY category`,
		constants.TypeExpense, year,
		string(constants.TxStatusValidated), string(constants.TxStatusReconciled),
	)
	if err != nil {
		r.logger.Error("failed to compute spent by category", "year", year, "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var name string
		var sum float64
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, err
		}
		out[name] = sum
	}
	return out, rows.Err()
}

func insertBudgetCategories(ctx context.Context, tx *sql.Tx, cats []entity.BudgetCategory) error {
	for _, c := range cats {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO budget_categories (`+budgetCategoryColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.ID, c.BudgetID, c.Name, c.AllocatedAmount, c.SpentAmount, c.Notes, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanBudget(s rowScanner) (*entity.Budget, error) {
	var b entity.Budget
	var targetEvents sql.NullInt64
	var targetRevenue, targetMargin sql.NullFloat64

	err := s.Scan(&b.ID, &b.Year, &b.TotalBudget, &targetEvents, &targetRevenue, &targetMargin, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	b.TargetEvents = nullInt(targetEvents)
	b.TargetRevenue = nullFloat(targetRevenue)
	b.TargetMargin = nullFloat(targetMargin)
	return &b, nil
}
