// Package reports derives financial statements from ledger, invoice and
// account data. Everything here is read-side: a period with no data resolves
// to all-zero aggregates, never an error.
package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/money"
	"github.com/assotools/finledger/internal/repository"
)

// Service computes the three reporting views.
type Service struct {
	reporting repository.ReportingRepository
	accounts  repository.AccountRepository
	invoices  repository.InvoiceRepository
	logger    *slog.Logger

	// now is swappable in tests; the KPI view is pinned to the calendar month
	// of "now" regardless of the requested period.
	now func() time.Time
}

// NewService creates a new reporting service.
func NewService(reporting repository.ReportingRepository, accounts repository.AccountRepository, invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	return &Service{
		reporting: reporting,
		accounts:  accounts,
		invoices:  invoices,
		logger:    logger,
		now:       time.Now,
	}
}

// FinanceKPIs is the dashboard header: live treasury plus current-month flow.
type FinanceKPIs struct {
	TotalBalance float64 `json:"total_balance"`
	MonthIncome  float64 `json:"month_income"`
	MonthExpense float64 `json:"month_expense"`
	MonthResult  float64 `json:"month_result"`
}

// KPIs returns the finance KPIs. The month window is always the current
// calendar month, independent of any requested reporting period.
func (s *Service) KPIs(ctx context.Context) (*FinanceKPIs, error) {
	balance, err := s.accounts.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	income, expense, err := s.reporting.SumByType(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &FinanceKPIs{
		TotalBalance: balance,
		MonthIncome:  income,
		MonthExpense: expense,
		MonthResult:  money.Sum(income, -expense),
	}, nil
}

// ProfitAndLoss buckets revenue and expenses for the labeled window.
type ProfitAndLoss struct {
	Period          string                       `json:"period"`
	Revenue         map[constants.Bucket]float64 `json:"revenue"`
	Expenses        map[constants.Bucket]float64 `json:"expenses"`
	TotalRevenue    float64                      `json:"total_revenue"`
	TotalExpenses   float64                      `json:"total_expenses"`
	GrossMargin     float64                      `json:"gross_margin"`
	OperatingResult float64                      `json:"operating_result"`
}

// directCostBuckets are the show-production costs subtracted for the gross
// margin; the operating result subtracts everything.
var directCostBuckets = []constants.Bucket{
	constants.BucketCachets,
	constants.BucketLocation,
	constants.BucketTechnique,
}

// ProfitAndLoss computes the categorized P&L for the window. Ledger
// categories that match no named bucket fall into "autres".
func (s *Service) ProfitAndLoss(ctx context.Context, spec Spec) (*ProfitAndLoss, error) {
	from, to := spec.Range()

	revenueRaw, err := s.reporting.CategorySums(ctx, constants.TypeIncome, from, to)
	if err != nil {
		return nil, err
	}
	expenseRaw, err := s.reporting.CategorySums(ctx, constants.TypeExpense, from, to)
	if err != nil {
		return nil, err
	}

	pl := &ProfitAndLoss{
		Period:   spec.Label(),
		Revenue:  foldBuckets(revenueRaw, constants.RevenueBuckets),
		Expenses: foldBuckets(expenseRaw, constants.ExpenseBuckets),
	}

	for _, b := range constants.RevenueBuckets {
		pl.TotalRevenue = money.Sum(pl.TotalRevenue, pl.Revenue[b])
	}
	for _, b := range constants.ExpenseBuckets {
		pl.TotalExpenses = money.Sum(pl.TotalExpenses, pl.Expenses[b])
	}

	directCosts := 0.0
	for _, b := range directCostBuckets {
		directCosts = money.Sum(directCosts, pl.Expenses[b])
	}
	pl.GrossMargin = money.Sum(pl.TotalRevenue, -directCosts)
	pl.OperatingResult = money.Sum(pl.TotalRevenue, -pl.TotalExpenses)

	return pl, nil
}

// BalanceSheet is a structural snapshot for the labeled window: treasury and
// open client invoices on the asset side, open supplier invoices opposite.
type BalanceSheet struct {
	Period      string  `json:"period"`
	Treasury    float64 `json:"treasury"`
	Receivables float64 `json:"receivables"`
	TotalAssets float64 `json:"total_assets"`
	Payables    float64 `json:"payables"`
	NetPosition float64 `json:"net_position"`
}

// openStatuses are the document states still expected to settle.
var openStatuses = []string{
	string(constants.InvoiceStatusPending),
	string(constants.InvoiceStatusOverdue),
}

// BalanceSheet computes the snapshot. Empty data yields zeros.
func (s *Service) BalanceSheet(ctx context.Context, spec Spec) (*BalanceSheet, error) {
	treasury, err := s.accounts.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}
	receivables, err := s.invoices.TotalsByStatus(ctx, constants.ClientTypeClient, openStatuses)
	if err != nil {
		return nil, err
	}
	payables, err := s.invoices.TotalsByStatus(ctx, constants.ClientTypeSupplier, openStatuses)
	if err != nil {
		return nil, err
	}

	assets := money.Sum(treasury, receivables)
	return &BalanceSheet{
		Period:      spec.Label(),
		Treasury:    treasury,
		Receivables: receivables,
		TotalAssets: assets,
		Payables:    payables,
		NetPosition: money.Sum(assets, -payables),
	}, nil
}

// Ratios are the structural indicators derived from the same window. A zero
// denominator yields a zero ratio, never a division error.
type Ratios struct {
	Period    string  `json:"period"`
	Liquidity float64 `json:"liquidity"` // treasury / payables
	Autonomy  float64 `json:"autonomy"`  // net position / total assets
	ROI       float64 `json:"roi"`       // operating result / total expenses
	Margin    float64 `json:"margin"`    // operating result / total revenue
}

// Ratios computes the financial ratios for the window.
func (s *Service) Ratios(ctx context.Context, spec Spec) (*Ratios, error) {
	sheet, err := s.BalanceSheet(ctx, spec)
	if err != nil {
		return nil, err
	}
	pl, err := s.ProfitAndLoss(ctx, spec)
	if err != nil {
		return nil, err
	}

	return &Ratios{
		Period:    spec.Label(),
		Liquidity: safeDiv(sheet.Treasury, sheet.Payables),
		Autonomy:  safeDiv(sheet.NetPosition, sheet.TotalAssets),
		ROI:       safeDiv(pl.OperatingResult, pl.TotalExpenses),
		Margin:    safeDiv(pl.OperatingResult, pl.TotalRevenue),
	}, nil
}

// foldBuckets folds raw category sums into the fixed bucket set; unmatched
// categories accumulate under "autres". Every bucket is present in the
// result, zero when empty.
func foldBuckets(raw map[string]float64, buckets []constants.Bucket) map[constants.Bucket]float64 {
	known := make(map[constants.Bucket]bool, len(buckets))
	out := make(map[constants.Bucket]float64, len(buckets))
	for _, b := range buckets {
		known[b] = true
		out[b] = 0
	}

	for category, sum := range raw {
		b := constants.CanonicalizeBucket(category)
		if !known[b] {
			b = constants.BucketAutres
		}
		out[b] = money.Sum(out[b], sum)
	}
	return out
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
