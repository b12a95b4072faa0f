package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
)

const projectColumns = `id, title, status, start_date, end_date, description, created_at, updated_at`

const projectLineColumns = `id, project_id, label, allocated_amount, actual_amount, created_at, updated_at`

type projectRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewProjectRepository(db *DB, logger *slog.Logger) ProjectRepository {
	return &projectRepository{
		db:     db,
		logger: logger,
	}
}

func (r *projectRepository) List(ctx context.Context, status string, year int) ([]*entity.BudgetProject, error) {
	query := `SELECT ` + projectColumns + ` FROM budget_projects`
	var conds []string
	var args []any
	if status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, status)
	}
	if year != 0 {
		// filter on the year extracted from start_date, computed in Go to
		// keep the SQL identical on both backends
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		conds = append(conds, fmt.Sprintf("start_date >= $%d AND start_date < $%d", len(args)+1, len(args)+2))
		args = append(args, from, to)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_date DESC"

	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list projects", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.BudgetProject, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range out {
		lines, err := r.listLines(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Lines = lines
	}
	return out, nil
}

func (r *projectRepository) Get(ctx context.Context, id string) (*entity.BudgetProject, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM budget_projects WHERE id = $1`, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NotFoundErrorf("project %s", id)
		}
		r.logger.Error("failed to get project", "id", id, "error", err)
		return nil, err
	}

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Lines = lines
	return p, nil
}

func (r *projectRepository) listLines(ctx context.Context, projectID string) ([]entity.BudgetProjectLine, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT `+projectLineColumns+` FROM budget_project_lines WHERE project_id = $1 ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]entity.BudgetProjectLine, 0)
	for rows.Next() {
		var l entity.BudgetProjectLine
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Label, &l.AllocatedAmount, &l.ActualAmount, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *projectRepository) Create(ctx context.Context, p *entity.BudgetProject) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO budget_projects (`+projectColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Title, p.Status, p.StartDate, p.EndDate, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert project", "id", p.ID, "error", err)
		return err
	}

	for _, l := range p.Lines {
		if err := insertProjectLine(ctx, tx, &l); err != nil {
			r.logger.Error("failed to insert project line", "project_id", p.ID, "error", err)
			return err
		}
	}
	return tx.Commit()
}

func (r *projectRepository) Update(ctx context.Context, p *entity.BudgetProject) error {
	res, err := r.db.SQL.ExecContext(ctx,
		`UPDATE budget_projects SET
			title = $2, status = $3, start_date = $4, end_date = $5, description = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.Title, p.Status, p.StartDate, p.EndDate, p.Description, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update project", "id", p.ID, "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundErrorf("project %s", p.ID)
	}
	return nil
}

// Delete removes the project and cascades to its lines.
func (r *projectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_project_lines WHERE project_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_projects WHERE id = $1`, id); err != nil {
		r.logger.Error("failed to delete project", "id", id, "error", err)
		return err
	}
	return tx.Commit()
}

func (r *projectRepository) CreateLine(ctx context.Context, l *entity.BudgetProjectLine) error {
	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO budget_project_lines (`+projectLineColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.ProjectID, l.Label, l.AllocatedAmount, l.ActualAmount, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert project line", "project_id", l.ProjectID, "error", err)
	}
	return err
}

func (r *projectRepository) UpdateLine(ctx context.Context, l *entity.BudgetProjectLine) error {
	res, err := r.db.SQL.ExecContext(ctx,
		`UPDATE budget_project_lines SET
			label = $2, allocated_amount = $3, actual_amount = $4, updated_at = $5
		 WHERE id = $1`,
		l.ID, l.Label, l.AllocatedAmount, l.ActualAmount, l.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update project line", "id", l.ID, "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundErrorf("project line %s", l.ID)
	}
	return nil
}

func (r *projectRepository) DeleteLine(ctx context.Context, id string) error {
	_, err := r.db.SQL.ExecContext(ctx, `DELETE FROM budget_project_lines WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete project line", "id", id, "error", err)
	}
	return err
}

func insertProjectLine(ctx context.Context, tx *sql.Tx, l *entity.BudgetProjectLine) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO budget_project_lines (`+projectLineColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.ProjectID, l.Label, l.AllocatedAmount, l.ActualAmount, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func scanProject(s rowScanner) (*entity.BudgetProject, error) {
	var p entity.BudgetProject
	var endDate sql.NullTime
	var description sql.NullString

	err := s.Scan(&p.ID, &p.Title, &p.Status, &p.StartDate, &endDate, &description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.EndDate = nullTime(endDate)
	p.Description = nullStr(description)
	return &p, nil
}
