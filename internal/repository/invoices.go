package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
)

const invoiceColumns = `id, invoice_number, type, issue_date, due_date, client_type, client_name,
	client_email, client_address, category, status, subtotal_excl_tax, total_vat,
	total_incl_tax, paid_date, payment_terms, notes, created_at, updated_at`

const invoiceLineColumns = `id, invoice_id, description, quantity, unit_price_excl_tax, vat_rate,
	order_index, amount_excl_tax, amount_vat, amount_incl_tax`

type invoiceRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewInvoiceRepository(db *DB, logger *slog.Logger) InvoiceRepository {
	return &invoiceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *invoiceRepository) List(ctx context.Context, docType string, status string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	var conds []string
	var args []any
	if docType != "" {
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, docType)
	}
	if status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY issue_date DESC, created_at DESC"

	return r.queryInvoices(ctx, query, args...)
}

func (r *invoiceRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error) {
	return r.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 WHERE status = $1 AND due_date IS NOT NULL AND due_date < $2
		 ORDER BY due_date`,
		string(constants.InvoiceStatusPending), asOf,
	)
}

func (r *invoiceRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list invoices", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, inv := range out {
		lines, err := r.listLines(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Lines = lines
	}
	return out, nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NotFoundErrorf("invoice %s", id)
		}
		r.logger.Error("failed to get invoice", "id", id, "error", err)
		return nil, err
	}

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return inv, nil
}

func (r *invoiceRepository) listLines(ctx context.Context, invoiceID string) ([]entity.InvoiceLine, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT `+invoiceLineColumns+` FROM invoice_lines WHERE invoice_id = $1 ORDER BY order_index`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]entity.InvoiceLine, 0)
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.Description, &l.Quantity, &l.UnitPriceExclTax, &l.VATRate,
			&l.OrderIndex, &l.AmountExclTax, &l.AmountVAT, &l.AmountInclTax,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Create inserts the header and its full line set as one atomic unit.
func (r *invoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		inv.ID, inv.InvoiceNumber, inv.Type, inv.IssueDate, inv.DueDate, inv.ClientType, inv.ClientName,
		inv.ClientEmail, inv.ClientAddress, inv.Category, inv.Status, inv.SubtotalExclTax, inv.TotalVAT,
		inv.TotalInclTax, inv.PaidDate, inv.PaymentTerms, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert invoice", "id", inv.ID, "error", err)
		return err
	}

	if err := insertLines(ctx, tx, inv.Lines); err != nil {
		r.logger.Error("failed to insert invoice lines", "id", inv.ID, "error", err)
		return err
	}
	return tx.Commit()
}

// Update rewrites the header and, when replaceLines is set, swaps the entire
// line set. A failure anywhere rolls the whole document back, so a consumer
// never observes header changes with a stale line set.
func (r *invoiceRepository) Update(ctx context.Context, inv *entity.Invoice, replaceLines bool) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE invoices SET
			type = $2, issue_date = $3, due_date = $4, client_type = $5, client_name = $6,
			client_email = $7, client_address = $8, category = $9, status = $10,
			subtotal_excl_tax = $11, total_vat = $12, total_incl_tax = $13, paid_date = $14,
			payment_terms = $15, notes = $16, updated_at = $17
		 WHERE id = $1`,
		inv.ID, inv.Type, inv.IssueDate, inv.DueDate, inv.ClientType, inv.ClientName,
		inv.ClientEmail, inv.ClientAddress, inv.Category, inv.Status,
		inv.SubtotalExclTax, inv.TotalVAT, inv.TotalInclTax, inv.PaidDate,
		inv.PaymentTerms, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update invoice", "id", inv.ID, "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundErrorf("invoice %s", inv.ID)
	}

	if replaceLines {
		if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		if err := insertLines(ctx, tx, inv.Lines); err != nil {
			r.logger.Error("failed to replace invoice lines", "id", inv.ID, "error", err)
			return err
		}
	}
	return tx.Commit()
}

// Delete removes the document and cascades to its lines.
func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// explicit child delete in addition to ON DELETE CASCADE, so behavior is
	// identical even on a store opened without foreign keys enforced
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		r.logger.Error("failed to delete invoice", "id", id, "error", err)
		return err
	}
	return tx.Commit()
}

func (r *invoiceRepository) TotalsByStatus(ctx context.Context, clientType string, statuses []string) (float64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(statuses))
	args := []any{clientType}
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, s)
	}

	var total float64
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_incl_tax), 0) FROM invoices
		 WHERE client_type = $1 AND status IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	).Scan(&total)
	if err != nil {
		r.logger.Error("failed to sum invoice totals", "client_type", clientType, "error", err)
		return 0, err
	}
	return total, nil
}

func insertLines(ctx context.Context, tx *sql.Tx, lines []entity.InvoiceLine) error {
	for _, l := range lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_lines (`+invoiceLineColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, l.InvoiceID, l.Description, l.Quantity, l.UnitPriceExclTax, l.VATRate,
			l.OrderIndex, l.AmountExclTax, l.AmountVAT, l.AmountInclTax,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanInvoice(s rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var dueDate, paidDate sql.NullTime
	var clientEmail, clientAddress, paymentTerms, notes sql.NullString

	err := s.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.Type, &inv.IssueDate, &dueDate, &inv.ClientType, &inv.ClientName,
		&clientEmail, &clientAddress, &inv.Category, &inv.Status, &inv.SubtotalExclTax, &inv.TotalVAT,
		&inv.TotalInclTax, &paidDate, &paymentTerms, &notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.DueDate = nullTime(dueDate)
	inv.PaidDate = nullTime(paidDate)
	inv.ClientEmail = nullStr(clientEmail)
	inv.ClientAddress = nullStr(clientAddress)
	inv.PaymentTerms = nullStr(paymentTerms)
	inv.Notes = nullStr(notes)
	return &inv, nil
}
