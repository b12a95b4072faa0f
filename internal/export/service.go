package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/assotools/finledger/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	txRepo  repository.TransactionRepository
	invRepo repository.InvoiceRepository
	logger  *slog.Logger
}

func NewService(txRepo repository.TransactionRepository, invRepo repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{txRepo: txRepo, invRepo: invRepo, logger: logger}
}

// ExportTransactionsXLSX returns an XLSX workbook (as bytes) of ledger entries
// for one fiscal year, or all entries if year is zero.
func (s *Service) ExportTransactionsXLSX(ctx context.Context, year int) ([]byte, error) {
	start := time.Now()

	entries, err := s.txRepo.List(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Journal"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Date",
		"Reference",
		"Label",
		"Category",
		"Debit",
		"Credit",
		"Status",
		"Fiscal Year",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, t := range entries {
		values := []any{
			t.Date.Format("2006-01-02"),
			t.EntryNumber,
			t.Label,
			t.Category,
			t.Debit,
			t.Credit,
			string(t.Status),
			t.FiscalYear,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("exported transactions", "year", year, "rows", len(entries), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) of billing documents,
// optionally filtered by document type ("invoice" or "quote").
func (s *Service) ExportInvoicesXLSX(ctx context.Context, docType string) ([]byte, error) {
	start := time.Now()

	docs, err := s.invRepo.List(ctx, docType, "")
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Number",
		"Type",
		"Client",
		"Issue Date",
		"Due Date",
		"Subtotal",
		"VAT",
		"Total",
		"Status",
		"Paid Date",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, inv := range docs {
		dueDate := ""
		if inv.DueDate != nil {
			dueDate = inv.DueDate.Format("2006-01-02")
		}
		paidDate := ""
		if inv.PaidDate != nil {
			paidDate = inv.PaidDate.Format("2006-01-02")
		}
		values := []any{
			inv.InvoiceNumber,
			inv.Type,
			inv.ClientName,
			inv.IssueDate.Format("2006-01-02"),
			dueDate,
			inv.SubtotalExclTax,
			inv.TotalVAT,
			inv.TotalInclTax,
			string(inv.Status),
			paidDate,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("exported invoices", "type", docType, "rows", len(docs), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}
