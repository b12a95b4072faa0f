package invoices

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/repository"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close(logger) })
	if err := db.Migrate(context.Background(), logger); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	store := repository.NewStore(db, logger)
	return NewService(store.Invoices, logger)
}

func baseRequest(docType string, lines ...LineInput) CreateInvoiceRequest {
	return CreateInvoiceRequest{
		Type:       docType,
		IssueDate:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		ClientType: constants.ClientTypeClient,
		ClientName: "Mairie de Lyon",
		Category:   "billetterie",
		Lines:      lines,
	}
}

func TestCreateComputesLineAmounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	inv, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice,
		LineInput{Description: "entrées", Quantity: 2, UnitPriceExclTax: 50, VATRate: 20},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	l := inv.Lines[0]
	if l.AmountExclTax != 100 || l.AmountVAT != 20 || l.AmountInclTax != 120 {
		t.Errorf("line amounts = %v/%v/%v, want 100/20/120", l.AmountExclTax, l.AmountVAT, l.AmountInclTax)
	}
	if inv.SubtotalExclTax != 100 || inv.TotalVAT != 20 || inv.TotalInclTax != 120 {
		t.Errorf("totals = %v/%v/%v, want 100/20/120", inv.SubtotalExclTax, inv.TotalVAT, inv.TotalInclTax)
	}
	if inv.Status != constants.InvoiceStatusPending {
		t.Errorf("Status = %q, want pending for a new invoice", inv.Status)
	}
}

func TestCreateRoundsLinesIndependently(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// each line's excl amount rounds on its own: 3 x 0.335 = 1.005 -> 1.01
	inv, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice,
		LineInput{Description: "a", Quantity: 3, UnitPriceExclTax: 0.335, VATRate: 0},
		LineInput{Description: "b", Quantity: 3, UnitPriceExclTax: 0.335, VATRate: 0},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i, l := range inv.Lines {
		if l.AmountExclTax != 1.01 {
			t.Errorf("line %d excl = %v, want 1.01", i, l.AmountExclTax)
		}
	}
	if inv.SubtotalExclTax != 2.02 {
		t.Errorf("subtotal = %v, want exact sum 2.02 of rounded lines", inv.SubtotalExclTax)
	}
}

func TestCreateNumberPrefixes(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	line := LineInput{Description: "x", Quantity: 1, UnitPriceExclTax: 10}

	inv, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice, line))
	if err != nil {
		t.Fatalf("Create(invoice) error = %v", err)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "FAC-") {
		t.Errorf("invoice number = %q, want FAC- prefix", inv.InvoiceNumber)
	}

	quote, err := svc.Create(ctx, baseRequest(constants.DocTypeQuote, line))
	if err != nil {
		t.Fatalf("Create(quote) error = %v", err)
	}
	if !strings.HasPrefix(quote.InvoiceNumber, "DEV-") {
		t.Errorf("quote number = %q, want DEV- prefix", quote.InvoiceNumber)
	}
	if quote.Status != constants.InvoiceStatusQuote {
		t.Errorf("quote status = %q, want quote", quote.Status)
	}
}

func TestCreateRequiresLines(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice)); err == nil {
		t.Error("Create() without lines should fail")
	}
}

func TestUpdateReplacesLineSet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	inv, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice,
		LineInput{Description: "old", Quantity: 1, UnitPriceExclTax: 10},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newLines := []LineInput{
		{Description: "scène", Quantity: 1, UnitPriceExclTax: 200, VATRate: 20},
		{Description: "son", Quantity: 2, UnitPriceExclTax: 75, VATRate: 20},
	}
	got, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{Lines: &newLines})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(got.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2 replacement lines", len(got.Lines))
	}
	if got.Lines[0].OrderIndex != 0 || got.Lines[1].OrderIndex != 1 {
		t.Errorf("order indexes = %d,%d, want re-indexed from 0", got.Lines[0].OrderIndex, got.Lines[1].OrderIndex)
	}
	// 200 + 150 excl, 40 + 30 vat
	if got.SubtotalExclTax != 350 || got.TotalVAT != 70 || got.TotalInclTax != 420 {
		t.Errorf("totals = %v/%v/%v, want 350/70/420 recomputed", got.SubtotalExclTax, got.TotalVAT, got.TotalInclTax)
	}

	stored, err := svc.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(stored.Lines) != 2 || stored.Lines[0].Description != "scène" {
		t.Errorf("replacement not persisted: %+v", stored.Lines)
	}
}

func TestUpdateEmptyLineSetEmptiesDocument(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	inv, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice,
		LineInput{Description: "x", Quantity: 1, UnitPriceExclTax: 10},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	empty := []LineInput{}
	got, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{Lines: &empty})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(got.Lines) != 0 || got.TotalInclTax != 0 {
		t.Errorf("document not emptied: %d lines, total %v", len(got.Lines), got.TotalInclTax)
	}
}

func TestUpdateWithoutLinesKeepsSet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	inv, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice,
		LineInput{Description: "x", Quantity: 1, UnitPriceExclTax: 10},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	name := "Nouveau client"
	if _, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{ClientName: &name}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stored, err := svc.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.ClientName != name {
		t.Errorf("ClientName = %q, want %q", stored.ClientName, name)
	}
	if len(stored.Lines) != 1 {
		t.Errorf("len(Lines) = %d, want the untouched line", len(stored.Lines))
	}
}

func TestMarkAsPaid(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	inv, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice,
		LineInput{Description: "x", Quantity: 1, UnitPriceExclTax: 10},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	when := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	got, err := svc.MarkAsPaid(ctx, inv.ID, &when)
	if err != nil {
		t.Fatalf("MarkAsPaid() error = %v", err)
	}
	if got.Status != constants.InvoiceStatusPaid {
		t.Errorf("Status = %q, want paid", got.Status)
	}
	if got.PaidDate == nil || !got.PaidDate.Equal(when) {
		t.Errorf("PaidDate = %v, want %v", got.PaidDate, when)
	}
}

func TestMarkAsPaidDefaultsToNow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	inv, err := svc.Create(ctx, baseRequest(constants.DocTypeInvoice,
		LineInput{Description: "x", Quantity: 1, UnitPriceExclTax: 10},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	before := time.Now().UTC().Add(-time.Second)
	got, err := svc.MarkAsPaid(ctx, inv.ID, nil)
	if err != nil {
		t.Fatalf("MarkAsPaid() error = %v", err)
	}
	if got.PaidDate == nil || got.PaidDate.Before(before) {
		t.Errorf("PaidDate = %v, want defaulted to now", got.PaidDate)
	}
}
