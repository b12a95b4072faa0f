package entity

import (
	"time"

	"github.com/assotools/finledger/constants"
)

// Invoice is a billing document (invoice or quote) together with its lines.
// Document totals are the sum of the already-rounded line totals.
type Invoice struct {
	ID              string                  `json:"id"`
	InvoiceNumber   string                  `json:"invoice_number"`           // FAC-… or DEV-…, generated once
	Type            string                  `json:"type"`                     // invoice | quote
	IssueDate       time.Time               `json:"issue_date"`
	DueDate         *time.Time              `json:"due_date,omitempty"`       // invoices only
	ClientType      string                  `json:"client_type"`              // client | supplier
	ClientName      string                  `json:"client_name"`
	ClientEmail     *string                 `json:"client_email,omitempty"`
	ClientAddress   *string                 `json:"client_address,omitempty"`
	Category        string                  `json:"category"`
	Status          constants.InvoiceStatus `json:"status"`
	SubtotalExclTax float64                 `json:"subtotal_excl_tax"`
	TotalVAT        float64                 `json:"total_vat"`
	TotalInclTax    float64                 `json:"total_incl_tax"`
	PaidDate        *time.Time              `json:"paid_date,omitempty"`
	PaymentTerms    *string                 `json:"payment_terms,omitempty"`
	Notes           *string                 `json:"notes,omitempty"`
	Lines           []InvoiceLine           `json:"lines"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// InvoiceLine carries its three computed amounts, each rounded to 2 decimals
// independently before the document totals are summed.
type InvoiceLine struct {
	ID               string  `json:"id"`
	InvoiceID        string  `json:"invoice_id"`
	Description      string  `json:"description"`
	Quantity         float64 `json:"quantity"`
	UnitPriceExclTax float64 `json:"unit_price_excl_tax"`
	VATRate          float64 `json:"vat_rate"`
	OrderIndex       int     `json:"order_index"`
	AmountExclTax    float64 `json:"amount_excl_tax"`
	AmountVAT        float64 `json:"amount_vat"`
	AmountInclTax    float64 `json:"amount_incl_tax"`
}
