package entity

import "time"

// TransactionCategory is a catalogue entry; ledger categories reference it by
// name only, by convention rather than foreign key. Soft-deleted via Active.
type TransactionCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`       // income | expense
	IsDefault bool      `json:"is_default"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
