package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
)

const transactionColumns = `id, entry_number, type, date, label, amount, category, fiscal_year,
	debit, credit, status, reconciled, reconciled_at, validated_by, validated_at,
	event_id, contact_id, project_id, vat_applicable, vat_rate, amount_excl_tax,
	member_id, advance_kind, advance_settled, created_at, updated_at`

type transactionRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewTransactionRepository(db *DB, logger *slog.Logger) TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) List(ctx context.Context, year int) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date DESC, created_at DESC`
	args := []any{}
	if year != 0 {
		query = `SELECT ` + transactionColumns + ` FROM transactions WHERE fiscal_year = $1 ORDER BY date DESC, created_at DESC`
		args = append(args, year)
	}

	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list transactions", "year", year, "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionRepository) Get(ctx context.Context, id string) (*entity.Transaction, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NotFoundErrorf("transaction %s", id)
		}
		r.logger.Error("failed to get transaction", "id", id, "error", err)
		return nil, err
	}
	return t, nil
}

func (r *transactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	var memberID, advanceKind *string
	var advanceSettled *bool
	if t.Advance != nil {
		memberID = &t.Advance.MemberID
		advanceKind = &t.Advance.Kind
		advanceSettled = &t.Advance.Settled
	}

	_, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		         $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		t.ID, t.EntryNumber, t.Type, t.Date, t.Label, t.Amount, t.Category, t.FiscalYear,
		t.Debit, t.Credit, t.Status, t.Reconciled, t.ReconciledAt, t.ValidatedBy, t.ValidatedAt,
		t.EventID, t.ContactID, t.ProjectID, t.VATApplicable, t.VATRate, t.AmountExclTax,
		memberID, advanceKind, advanceSettled, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert transaction", "id", t.ID, "error", err)
		return err
	}
	return nil
}

func (r *transactionRepository) Update(ctx context.Context, t *entity.Transaction) error {
	var memberID, advanceKind *string
	var advanceSettled *bool
	if t.Advance != nil {
		memberID = &t.Advance.MemberID
		advanceKind = &t.Advance.Kind
		advanceSettled = &t.Advance.Settled
	}

	res, err := r.db.SQL.ExecContext(ctx,
		`UPDATE transactions SET
			type = $2, date = $3, label = $4, amount = $5, category = $6, fiscal_year = $7,
			debit = $8, credit = $9, status = $10, reconciled = $11, reconciled_at = $12,
			validated_by = $13, validated_at = $14, event_id = $15, contact_id = $16,
			project_id = $17, vat_applicable = $18, vat_rate = $19, amount_excl_tax = $20,
			member_id = $21, advance_kind = $22, advance_settled = $23, updated_at = $24
		 WHERE id = $1`,
		t.ID, t.Type, t.Date, t.Label, t.Amount, t.Category, t.FiscalYear,
		t.Debit, t.Credit, t.Status, t.Reconciled, t.ReconciledAt,
		t.ValidatedBy, t.ValidatedAt, t.EventID, t.ContactID,
		t.ProjectID, t.VATApplicable, t.VATRate, t.AmountExclTax,
		memberID, advanceKind, advanceSettled, t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update transaction", "id", t.ID, "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundErrorf("transaction %s", t.ID)
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	// unconditional hard delete, no trace kept
	_, err := r.db.SQL.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete transaction", "id", id, "error", err)
	}
	return err
}

func scanTransaction(s rowScanner) (*entity.Transaction, error) {
	var t entity.Transaction
	var reconciledAt, validatedAt sql.NullTime
	var validatedBy, eventID, contactID, projectID sql.NullString
	var vatRate, amountExclTax sql.NullFloat64
	var memberID, advanceKind sql.NullString
	var advanceSettled sql.NullBool

	err := s.Scan(
		&t.ID, &t.EntryNumber, &t.Type, &t.Date, &t.Label, &t.Amount, &t.Category, &t.FiscalYear,
		&t.Debit, &t.Credit, &t.Status, &t.Reconciled, &reconciledAt, &validatedBy, &validatedAt,
		&eventID, &contactID, &projectID, &t.VATApplicable, &vatRate, &amountExclTax,
		&memberID, &advanceKind, &advanceSettled, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.ReconciledAt = nullTime(reconciledAt)
	t.ValidatedBy = nullStr(validatedBy)
	t.ValidatedAt = nullTime(validatedAt)
	t.EventID = nullStr(eventID)
	t.ContactID = nullStr(contactID)
	t.ProjectID = nullStr(projectID)
	t.VATRate = nullFloat(vatRate)
	t.AmountExclTax = nullFloat(amountExclTax)
	if memberID.Valid {
		t.Advance = &entity.MemberAdvance{
			MemberID: memberID.String,
			Kind:     advanceKind.String,
			Settled:  advanceSettled.Valid && advanceSettled.Bool,
		}
	}
	return &t, nil
}
