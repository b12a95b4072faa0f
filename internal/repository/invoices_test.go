package repository

import (
	"context"
	"testing"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/entity"
)

func sampleInvoice(id string, status constants.InvoiceStatus, total float64) *entity.Invoice {
	now := time.Now().UTC()
	return &entity.Invoice{
		ID:              id,
		InvoiceNumber:   "FAC-" + id,
		Type:            constants.DocTypeInvoice,
		IssueDate:       time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		ClientType:      constants.ClientTypeClient,
		ClientName:      "Salle des fêtes",
		Category:        "billetterie",
		Status:          status,
		SubtotalExclTax: total,
		TotalInclTax:    total,
		Lines: []entity.InvoiceLine{
			{
				ID: id + "-l0", InvoiceID: id, Description: "prestation",
				Quantity: 1, UnitPriceExclTax: total, OrderIndex: 0,
				AmountExclTax: total, AmountInclTax: total,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInvoiceCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	inv := sampleInvoice("inv1", constants.InvoiceStatusPending, 250)
	if err := store.Invoices.Create(ctx, inv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Invoices.Get(ctx, "inv1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.InvoiceNumber != "FAC-inv1" || got.ClientName != "Salle des fêtes" {
		t.Errorf("Get() = %+v", got)
	}
	if len(got.Lines) != 1 || got.Lines[0].Description != "prestation" {
		t.Errorf("lines not loaded: %+v", got.Lines)
	}
}

func TestInvoiceUpdateReplacesLines(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	inv := sampleInvoice("inv2", constants.InvoiceStatusPending, 100)
	if err := store.Invoices.Create(ctx, inv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inv.Lines = []entity.InvoiceLine{
		{ID: "inv2-n0", InvoiceID: "inv2", Description: "location", Quantity: 2, UnitPriceExclTax: 30, OrderIndex: 0, AmountExclTax: 60, AmountInclTax: 60},
		{ID: "inv2-n1", InvoiceID: "inv2", Description: "technique", Quantity: 1, UnitPriceExclTax: 40, OrderIndex: 1, AmountExclTax: 40, AmountInclTax: 40},
	}
	if err := store.Invoices.Update(ctx, inv, true); err != nil {
		t.Fatalf("Update(replaceLines) error = %v", err)
	}

	got, err := store.Invoices.Get(ctx, "inv2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2 after replacement", len(got.Lines))
	}
	if got.Lines[0].Description != "location" || got.Lines[1].Description != "technique" {
		t.Errorf("lines out of order: %+v", got.Lines)
	}
}

func TestInvoiceUpdateKeepsLines(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	inv := sampleInvoice("inv3", constants.InvoiceStatusPending, 100)
	if err := store.Invoices.Create(ctx, inv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inv.Status = constants.InvoiceStatusPaid
	inv.Lines = nil // header-only write must not touch stored lines
	if err := store.Invoices.Update(ctx, inv, false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.Invoices.Get(ctx, "inv3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != constants.InvoiceStatusPaid {
		t.Errorf("Status = %q, want paid", got.Status)
	}
	if len(got.Lines) != 1 {
		t.Errorf("len(Lines) = %d, want 1 untouched line", len(got.Lines))
	}
}

func TestInvoiceDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	db := store.Invoices.(*invoiceRepository).db

	inv := sampleInvoice("inv4", constants.InvoiceStatusPending, 100)
	if err := store.Invoices.Create(ctx, inv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Invoices.Delete(ctx, "inv4"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var n int
	if err := db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoice_lines WHERE invoice_id = $1`, "inv4").Scan(&n); err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if n != 0 {
		t.Errorf("%d orphan lines left after delete", n)
	}
}

func TestInvoiceListFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	quote := sampleInvoice("q1", constants.InvoiceStatusQuote, 100)
	quote.Type = constants.DocTypeQuote
	quote.InvoiceNumber = "DEV-q1"
	for _, inv := range []*entity.Invoice{
		sampleInvoice("f1", constants.InvoiceStatusPending, 100),
		sampleInvoice("f2", constants.InvoiceStatusPaid, 100),
		quote,
	} {
		if err := store.Invoices.Create(ctx, inv); err != nil {
			t.Fatalf("Create(%s) error = %v", inv.ID, err)
		}
	}

	tests := []struct {
		name    string
		docType string
		status  string
		want    int
	}{
		{"all", "", "", 3},
		{"invoices only", constants.DocTypeInvoice, "", 2},
		{"quotes only", constants.DocTypeQuote, "", 1},
		{"pending invoices", constants.DocTypeInvoice, string(constants.InvoiceStatusPending), 1},
		{"no match", constants.DocTypeQuote, string(constants.InvoiceStatusPaid), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.Invoices.List(ctx, tc.docType, tc.status)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("List(%q, %q) = %d documents, want %d", tc.docType, tc.status, len(got), tc.want)
			}
		})
	}
}

func TestInvoiceListOverdue(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	asOf := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	past := asOf.AddDate(0, -1, 0)
	future := asOf.AddDate(0, 1, 0)

	late := sampleInvoice("late", constants.InvoiceStatusPending, 100)
	late.DueDate = &past
	notYet := sampleInvoice("notyet", constants.InvoiceStatusPending, 100)
	notYet.DueDate = &future
	paid := sampleInvoice("paid", constants.InvoiceStatusPaid, 100)
	paid.DueDate = &past
	noDue := sampleInvoice("nodue", constants.InvoiceStatusPending, 100)

	for _, inv := range []*entity.Invoice{late, notYet, paid, noDue} {
		if err := store.Invoices.Create(ctx, inv); err != nil {
			t.Fatalf("Create(%s) error = %v", inv.ID, err)
		}
	}

	got, err := store.Invoices.ListOverdue(ctx, asOf)
	if err != nil {
		t.Fatalf("ListOverdue() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "late" {
		t.Errorf("ListOverdue() = %d documents, want only the late pending one", len(got))
	}
}

func TestInvoiceTotalsByStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	supplier := sampleInvoice("sup", constants.InvoiceStatusPending, 70)
	supplier.ClientType = constants.ClientTypeSupplier
	for _, inv := range []*entity.Invoice{
		sampleInvoice("c1", constants.InvoiceStatusPending, 100),
		sampleInvoice("c2", constants.InvoiceStatusOverdue, 50),
		sampleInvoice("c3", constants.InvoiceStatusPaid, 999),
		supplier,
	} {
		if err := store.Invoices.Create(ctx, inv); err != nil {
			t.Fatalf("Create(%s) error = %v", inv.ID, err)
		}
	}

	open := []string{string(constants.InvoiceStatusPending), string(constants.InvoiceStatusOverdue)}
	total, err := store.Invoices.TotalsByStatus(ctx, constants.ClientTypeClient, open)
	if err != nil {
		t.Fatalf("TotalsByStatus() error = %v", err)
	}
	if total != 150 {
		t.Errorf("TotalsByStatus() = %v, want 150", total)
	}

	none, err := store.Invoices.TotalsByStatus(ctx, constants.ClientTypeClient, nil)
	if err != nil {
		t.Fatalf("TotalsByStatus(nil) error = %v", err)
	}
	if none != 0 {
		t.Errorf("TotalsByStatus(nil) = %v, want 0", none)
	}
}
