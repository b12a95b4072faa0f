package repository

import (
	"context"
	"time"

	"github.com/assotools/finledger/internal/entity"
)

// TransactionRepository stores ledger entries. Merging partial updates is the
// service's job; repositories persist full rows.
type TransactionRepository interface {
	// List returns entries for a fiscal year, or every entry sorted by date
	// descending when year is zero.
	List(ctx context.Context, year int) ([]*entity.Transaction, error)
	Get(ctx context.Context, id string) (*entity.Transaction, error)
	Create(ctx context.Context, tx *entity.Transaction) error
	Update(ctx context.Context, tx *entity.Transaction) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository stores the transaction category catalogue. Categories are
// soft-deleted by clearing the active flag, never removed.
type CategoryRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*entity.TransactionCategory, error)
	Get(ctx context.Context, id string) (*entity.TransactionCategory, error)
	FindByName(ctx context.Context, name string) (*entity.TransactionCategory, error)
	Create(ctx context.Context, cat *entity.TransactionCategory) error
	Update(ctx context.Context, cat *entity.TransactionCategory) error
}

// AccountRepository stores bank accounts.
type AccountRepository interface {
	List(ctx context.Context) ([]*entity.BankAccount, error)
	Get(ctx context.Context, id string) (*entity.BankAccount, error)
	Create(ctx context.Context, acc *entity.BankAccount) error
	Update(ctx context.Context, acc *entity.BankAccount) error
	Delete(ctx context.Context, id string) error
	// TotalBalance sums current_balance across active accounts.
	TotalBalance(ctx context.Context) (float64, error)
}

// InvoiceRepository stores invoices together with their lines. A document and
// its line set are always written as one atomic unit.
type InvoiceRepository interface {
	List(ctx context.Context, docType string, status string) ([]*entity.Invoice, error)
	Get(ctx context.Context, id string) (*entity.Invoice, error)
	Create(ctx context.Context, inv *entity.Invoice) error
	// Update rewrites the header; when replaceLines is true the entire line
	// set is discarded and replaced with inv.Lines. There is no line patch.
	Update(ctx context.Context, inv *entity.Invoice, replaceLines bool) error
	Delete(ctx context.Context, id string) error
	// ListOverdue returns pending invoices whose due date has passed.
	ListOverdue(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error)
	// TotalsByStatus sums total_incl_tax over invoices of the given client
	// type and statuses, zero when nothing matches.
	TotalsByStatus(ctx context.Context, clientType string, statuses []string) (float64, error)
}

// BudgetRepository stores annual budgets and their category envelopes.
type BudgetRepository interface {
	List(ctx context.Context) ([]*entity.Budget, error)
	Get(ctx context.Context, id string) (*entity.Budget, error)
	Create(ctx context.Context, b *entity.Budget) error
	// Update rewrites the budget row; when replaceCategories is true all prior
	// category rows are discarded and replaced with b.Categories, losing any
	// accumulated spent_amount. This is a replace, not a merge.
	Update(ctx context.Context, b *entity.Budget, replaceCategories bool) error
	Delete(ctx context.Context, id string) error
	UpdateCategory(ctx context.Context, cat *entity.BudgetCategory) error
	// SpentByCategory joins the ledger: summed expense amounts per category
	// name for one fiscal year.
	SpentByCategory(ctx context.Context, year int) (map[string]float64, error)
}

// ProjectRepository stores ad-hoc budget projects and their lines.
type ProjectRepository interface {
	// List filters by status and by the year of start_date; zero values mean
	// no filter.
	List(ctx context.Context, status string, year int) ([]*entity.BudgetProject, error)
	Get(ctx context.Context, id string) (*entity.BudgetProject, error)
	Create(ctx context.Context, p *entity.BudgetProject) error
	Update(ctx context.Context, p *entity.BudgetProject) error
	Delete(ctx context.Context, id string) error
	CreateLine(ctx context.Context, line *entity.BudgetProjectLine) error
	UpdateLine(ctx context.Context, line *entity.BudgetProjectLine) error
	DeleteLine(ctx context.Context, id string) error
}

// ReportingRepository is the read path feeding the aggregator. Missing data
// resolves to zero values, never an error.
type ReportingRepository interface {
	// SumByType returns summed income and expense amounts for entries dated
	// in [from, to).
	SumByType(ctx context.Context, from, to time.Time) (income, expense float64, err error)
	// CategorySums returns summed amounts per raw ledger category for one
	// side of the ledger, for entries dated in [from, to).
	CategorySums(ctx context.Context, txType string, from, to time.Time) (map[string]float64, error)
}

// Store bundles every repository behind the persistence facade. Both backends
// satisfy it identically; callers never learn which one is active.
type Store struct {
	Transactions TransactionRepository
	Categories   CategoryRepository
	Accounts     AccountRepository
	Invoices     InvoiceRepository
	Budgets      BudgetRepository
	Projects     ProjectRepository
	Reporting    ReportingRepository
}
