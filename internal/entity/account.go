package entity

import "time"

// BankAccount is a funding account. CurrentBalance is maintained by callers,
// not recomputed from the ledger.
type BankAccount struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BankName       string    `json:"bank_name"`
	CurrentBalance float64   `json:"current_balance"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
