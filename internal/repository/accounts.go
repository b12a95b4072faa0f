package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
)

const accountColumns = `id, name, bank_name, current_balance, active, created_at, updated_at`

type accountRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewAccountRepository(db *DB, logger *slog.Logger) AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) List(ctx context.Context) ([]*entity.BankAccount, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts ORDER BY name`)
	if err != nil {
		r.logger.Error("failed to list bank accounts", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.BankAccount, 0)
	for rows.Next() {
		var a entity.BankAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.BankName, &a.CurrentBalance, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *accountRepository) Get(ctx context.Context, id string) (*entity.BankAccount, error) {
	var a entity.BankAccount
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.BankName, &a.CurrentBalance, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NotFoundErrorf("bank account %s", id)
		}
		r.logger.Error("failed to get bank account", "id", id, "error", err)
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *entity.BankAccount) error {
	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO bank_accounts (`+accountColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Name, a.BankName, a.CurrentBalance, a.Active, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert bank account", "id", a.ID, "error", err)
	}
	return err
}

func (r *accountRepository) Update(ctx context.Context, a *entity.BankAccount) error {
	res, err := r.db.SQL.ExecContext(ctx,
		`UPDATE bank_accounts SET
			name = $2, bank_name = $3, current_balance = $4, active = $5, updated_at = $6
		 WHERE id = $1`,
		a.ID, a.Name, a.BankName, a.CurrentBalance, a.Active, a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update bank account", "id", a.ID, "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundErrorf("bank account %s", a.ID)
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.SQL.ExecContext(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete bank account", "id", id, "error", err)
	}
	return err
}

func (r *accountRepository) TotalBalance(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(current_balance), 0) FROM bank_accounts WHERE active = TRUE`,
	).Scan(&total)
	if err != nil {
		r.logger.Error("failed to sum account balances", "error", err)
		return 0, err
	}
	return total, nil
}
