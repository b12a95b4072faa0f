package entity

import (
	"time"

	"github.com/assotools/finledger/constants"
)

// Transaction represents one ledger entry for data transfer between layers.
// Exactly one of Debit/Credit is non-zero and equals Amount.
type Transaction struct {
	ID            string             `json:"id"`
	EntryNumber   string             `json:"entry_number"`              // TRA-… reference code, generated once
	Type          string             `json:"type"`                      // income | expense
	Date          time.Time          `json:"date"`
	Label         string             `json:"label"`
	Amount        float64            `json:"amount"`                    // always positive
	Category      string             `json:"category"`
	FiscalYear    int                `json:"fiscal_year"`
	Debit         float64            `json:"debit"`
	Credit        float64            `json:"credit"`
	Status        constants.TxStatus `json:"status"`
	Reconciled    bool               `json:"reconciled"`
	ReconciledAt  *time.Time         `json:"reconciled_at,omitempty"`
	ValidatedBy   *string            `json:"validated_by,omitempty"`
	ValidatedAt   *time.Time         `json:"validated_at,omitempty"`
	EventID       *string            `json:"event_id,omitempty"`
	ContactID     *string            `json:"contact_id,omitempty"`
	ProjectID     *string            `json:"project_id,omitempty"`
	VATApplicable bool               `json:"vat_applicable"`
	VATRate       *float64           `json:"vat_rate,omitempty"`
	AmountExclTax *float64           `json:"amount_excl_tax,omitempty"`
	Advance       *MemberAdvance     `json:"advance,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// MemberAdvance is the optional member-advance / reimbursement sub-record
// attached to a ledger entry.
type MemberAdvance struct {
	MemberID string `json:"member_id"`
	Kind     string `json:"kind"`      // advance | reimbursement
	Settled  bool   `json:"settled"`
}
