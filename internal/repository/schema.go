package repository

import (
	"context"
	"log/slog"
)

// schemaStatements is deliberately restricted to DDL both backends accept, so
// a single migration path serves the remote and the local store. Statements
// run one per Exec; pgx's extended protocol rejects multi-statement strings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		id              TEXT PRIMARY KEY,
		entry_number    TEXT NOT NULL UNIQUE,
		type            TEXT NOT NULL,
		date            TIMESTAMP NOT NULL,
		label           TEXT NOT NULL,
		amount          DOUBLE PRECISION NOT NULL,
		category        TEXT NOT NULL DEFAULT '',
		fiscal_year     INTEGER NOT NULL,
		debit           DOUBLE PRECISION NOT NULL DEFAULT 0,
		credit          DOUBLE PRECISION NOT NULL DEFAULT 0,
		status          TEXT NOT NULL,
		reconciled      BOOLEAN NOT NULL DEFAULT FALSE,
		reconciled_at   TIMESTAMP,
		validated_by    TEXT,
		validated_at    TIMESTAMP,
		event_id        TEXT,
		contact_id      TEXT,
		project_id      TEXT,
		vat_applicable  BOOLEAN NOT NULL DEFAULT FALSE,
		vat_rate        DOUBLE PRECISION,
		amount_excl_tax DOUBLE PRECISION,
		member_id       TEXT,
		advance_kind    TEXT,
		advance_settled BOOLEAN,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_fiscal_year ON transactions (fiscal_year)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date)`,

	`CREATE TABLE IF NOT EXISTS transaction_categories (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		type       TEXT NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		active     BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS bank_accounts (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		bank_name       TEXT NOT NULL DEFAULT '',
		current_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		active          BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id                TEXT PRIMARY KEY,
		invoice_number    TEXT NOT NULL UNIQUE,
		type              TEXT NOT NULL,
		issue_date        TIMESTAMP NOT NULL,
		due_date          TIMESTAMP,
		client_type       TEXT NOT NULL,
		client_name       TEXT NOT NULL,
		client_email      TEXT,
		client_address    TEXT,
		category          TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL,
		subtotal_excl_tax DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_vat         DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_incl_tax    DOUBLE PRECISION NOT NULL DEFAULT 0,
		paid_date         TIMESTAMP,
		payment_terms     TEXT,
		notes             TEXT,
		created_at        TIMESTAMP NOT NULL,
		updated_at        TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_lines (
		id                  TEXT PRIMARY KEY,
		invoice_id          TEXT NOT NULL REFERENCES invoices (id) ON DELETE CASCADE,
		description         TEXT NOT NULL,
		quantity            DOUBLE PRECISION NOT NULL,
		unit_price_excl_tax DOUBLE PRECISION NOT NULL,
		vat_rate            DOUBLE PRECISION NOT NULL DEFAULT 0,
		order_index         INTEGER NOT NULL,
		amount_excl_tax     DOUBLE PRECISION NOT NULL,
		amount_vat          DOUBLE PRECISION NOT NULL,
		amount_incl_tax     DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoice_lines_invoice ON invoice_lines (invoice_id)`,

	`CREATE TABLE IF NOT EXISTS budgets (
		id             TEXT PRIMARY KEY,
		year           INTEGER NOT NULL,
		total_budget   DOUBLE PRECISION NOT NULL DEFAULT 0,
		target_events  INTEGER,
		target_revenue DOUBLE PRECISION,
		target_margin  DOUBLE PRECISION,
		created_at     TIMESTAMP NOT NULL,
		updated_at     TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS budget_categories (
		id               TEXT PRIMARY KEY,
		budget_id        TEXT NOT NULL REFERENCES budgets (id) ON DELETE CASCADE,
		name             TEXT NOT NULL,
		allocated_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		spent_amount     DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes            TEXT,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budget_categories_budget ON budget_categories (budget_id)`,

	`CREATE TABLE IF NOT EXISTS budget_projects (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		status      TEXT NOT NULL,
		start_date  TIMESTAMP NOT NULL,
		end_date    TIMESTAMP,
		description TEXT,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS budget_project_lines (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES budget_projects (id) ON DELETE CASCADE,
		label            TEXT NOT NULL,
		allocated_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		actual_amount    DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budget_project_lines_project ON budget_project_lines (project_id)`,
}

// Migrate creates the schema. Idempotent; safe to run at every startup.
func (d *DB) Migrate(ctx context.Context, logger *slog.Logger) error {
	logger.Info("running schema migration", "dialect", d.Dialect)
	for _, stmt := range schemaStatements {
		if _, err := d.SQL.ExecContext(ctx, stmt); err != nil {
			logger.Error("schema migration failed", "error", err)
			return err
		}
	}
	logger.Info("schema migration complete")
	return nil
}
