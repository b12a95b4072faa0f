package entity

import (
	"time"

	"github.com/assotools/finledger/constants"
)

// Budget is an annual envelope set. Replacing its category list discards the
// prior rows, including any accumulated spent amounts.
type Budget struct {
	ID            string           `json:"id"`
	Year          int              `json:"year"`
	TotalBudget   float64          `json:"total_budget"`
	TargetEvents  *int             `json:"target_events,omitempty"`
	TargetRevenue *float64         `json:"target_revenue,omitempty"`
	TargetMargin  *float64         `json:"target_margin,omitempty"`
	Categories    []BudgetCategory `json:"categories"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// BudgetCategory is one envelope inside an annual budget. SpentAmount is a
// write target for callers, not derived from the ledger.
type BudgetCategory struct {
	ID              string    `json:"id"`
	BudgetID        string    `json:"budget_id"`
	Name            string    `json:"name"`
	AllocatedAmount float64   `json:"allocated_amount"`
	SpentAmount     float64   `json:"spent_amount"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BudgetProject is an ad-hoc project envelope with its own line items.
type BudgetProject struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Status      constants.ProjectStatus `json:"status"`
	StartDate   time.Time               `json:"start_date"`
	EndDate     *time.Time              `json:"end_date,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Lines       []BudgetProjectLine     `json:"lines"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// BudgetProjectLine tracks one planned spend inside a project. ActualAmount
// starts at zero and is written by callers.
type BudgetProjectLine struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	Label           string    `json:"label"`
	AllocatedAmount float64   `json:"allocated_amount"`
	ActualAmount    float64   `json:"actual_amount"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
