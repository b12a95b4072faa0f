package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
)

const categoryColumns = `id, name, type, is_default, active, sort_order, created_at, updated_at`

type categoryRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewCategoryRepository(db *DB, logger *slog.Logger) CategoryRepository {
	return &categoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]*entity.TransactionCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM transaction_categories ORDER BY sort_order, name`
	if activeOnly {
		query = `SELECT ` + categoryColumns + ` FROM transaction_categories WHERE active = TRUE ORDER BY sort_order, name`
	}

	rows, err := r.db.SQL.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list categories", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.TransactionCategory, 0)
	for rows.Next() {
		var c entity.TransactionCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.IsDefault, &c.Active, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *categoryRepository) Get(ctx context.Context, id string) (*entity.TransactionCategory, error) {
	var c entity.TransactionCategory
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM transaction_categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Type, &c.IsDefault, &c.Active, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NotFoundErrorf("category %s", id)
		}
		r.logger.Error("failed to get category", "id", id, "error", err)
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*entity.TransactionCategory, error) {
	var c entity.TransactionCategory
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM transaction_categories WHERE name = $1`, name,
	).Scan(&c.ID, &c.Name, &c.Type, &c.IsDefault, &c.Active, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NotFoundErrorf("category named %q", name)
		}
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *entity.TransactionCategory) error {
	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO transaction_categories (`+categoryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Type, c.IsDefault, c.Active, c.SortOrder, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert category", "id", c.ID, "error", err)
	}
	return err
}

func (r *categoryRepository) Update(ctx context.Context, c *entity.TransactionCategory) error {
	res, err := r.db.SQL.ExecContext(ctx,
		`UPDATE transaction_categories SET
			name = $2, type = $3, is_default = $4, active = $5, sort_order = $6, updated_at = $7
		 WHERE id = $1`,
		c.ID, c.Name, c.Type, c.IsDefault, c.Active, c.SortOrder, c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update category", "id", c.ID, "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundErrorf("category %s", c.ID)
	}
	return nil
}
