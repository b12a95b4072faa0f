package repository

import (
	"context"
	"testing"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/entity"
)

func sampleBudget(id string, year int) *entity.Budget {
	now := time.Now().UTC()
	return &entity.Budget{
		ID:          id,
		Year:        year,
		TotalBudget: 10000,
		Categories: []entity.BudgetCategory{
			{ID: id + "-cachets", BudgetID: id, Name: "cachets", AllocatedAmount: 6000, CreatedAt: now, UpdatedAt: now},
			{ID: id + "-location", BudgetID: id, Name: "location", AllocatedAmount: 4000, CreatedAt: now, UpdatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestBudgetCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Budgets.Create(ctx, sampleBudget("b1", 2025)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Budgets.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Year != 2025 || got.TotalBudget != 10000 {
		t.Errorf("Get() = %+v", got)
	}
	if len(got.Categories) != 2 {
		t.Errorf("len(Categories) = %d, want 2", len(got.Categories))
	}
}

func TestBudgetUpdateReplacesCategories(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	b := sampleBudget("b2", 2025)
	if err := store.Budgets.Create(ctx, b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// accumulate some spend on the stored envelope first
	stored, err := store.Budgets.Get(ctx, "b2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	cat := stored.Categories[0]
	cat.SpentAmount = 1234
	cat.UpdatedAt = time.Now().UTC()
	if err := store.Budgets.UpdateCategory(ctx, &cat); err != nil {
		t.Fatalf("UpdateCategory() error = %v", err)
	}

	now := time.Now().UTC()
	b.Categories = []entity.BudgetCategory{
		{ID: "b2-new", BudgetID: "b2", Name: "communication", AllocatedAmount: 500, CreatedAt: now, UpdatedAt: now},
	}
	if err := store.Budgets.Update(ctx, b, true); err != nil {
		t.Fatalf("Update(replaceCategories) error = %v", err)
	}

	got, err := store.Budgets.Get(ctx, "b2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Categories) != 1 || got.Categories[0].Name != "communication" {
		t.Fatalf("Categories = %+v, want the single replacement row", got.Categories)
	}
	// prior spend does not survive replacement
	if got.Categories[0].SpentAmount != 0 {
		t.Errorf("SpentAmount = %v, want 0 on fresh envelope", got.Categories[0].SpentAmount)
	}
}

func TestBudgetUpdateKeepsCategories(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	b := sampleBudget("b3", 2025)
	if err := store.Budgets.Create(ctx, b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	b.TotalBudget = 12000
	b.Categories = nil
	if err := store.Budgets.Update(ctx, b, false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.Budgets.Get(ctx, "b3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.TotalBudget != 12000 {
		t.Errorf("TotalBudget = %v, want 12000", got.TotalBudget)
	}
	if len(got.Categories) != 2 {
		t.Errorf("len(Categories) = %d, want 2 untouched envelopes", len(got.Categories))
	}
}

func TestBudgetDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	db := store.Budgets.(*budgetRepository).db

	if err := store.Budgets.Create(ctx, sampleBudget("b4", 2024)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Budgets.Delete(ctx, "b4"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var n int
	if err := db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budget_categories WHERE budget_id = $1`, "b4").Scan(&n); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if n != 0 {
		t.Errorf("%d orphan categories left after delete", n)
	}
}

func TestBudgetSpentByCategory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	mk := func(id, txType, category string, status constants.TxStatus, amount float64) {
		tx := sampleTransaction(id, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), amount)
		tx.Type = txType
		tx.Category = category
		tx.Status = status
		if err := store.Transactions.Create(ctx, tx); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}
	mk("v1", constants.TypeExpense, "cachets", constants.TxStatusValidated, 300)
	mk("v2", constants.TypeExpense, "cachets", constants.TxStatusReconciled, 200)
	mk("pend", constants.TypeExpense, "cachets", constants.TxStatusPending, 999)
	mk("inc", constants.TypeIncome, "cachets", constants.TxStatusValidated, 999)
	mk("loc", constants.TypeExpense, "location", constants.TxStatusValidated, 80)

	spent, err := store.Budgets.SpentByCategory(ctx, 2025)
	if err != nil {
		t.Fatalf("SpentByCategory() error = %v", err)
	}
	if spent["cachets"] != 500 {
		t.Errorf("spent[cachets] = %v, want 500 (pending and income excluded)", spent["cachets"])
	}
	if spent["location"] != 80 {
		t.Errorf("spent[location] = %v, want 80", spent["location"])
	}
}

func sampleProject(id string, start time.Time) *entity.BudgetProject {
	now := time.Now().UTC()
	return &entity.BudgetProject{
		ID:        id,
		Title:     "Festival d'été",
		Status:    constants.ProjectStatusPlanned,
		StartDate: start,
		Lines: []entity.BudgetProjectLine{
			{ID: id + "-l0", ProjectID: id, Label: "scène", AllocatedAmount: 2000, CreatedAt: now, UpdatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProjectCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p := sampleProject("p1", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	if err := store.Projects.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Projects.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Festival d'été" || len(got.Lines) != 1 {
		t.Errorf("Get() = %+v", got)
	}

	got.Status = constants.ProjectStatusOngoing
	got.UpdatedAt = time.Now().UTC()
	if err := store.Projects.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	updated, _ := store.Projects.Get(ctx, "p1")
	if updated.Status != constants.ProjectStatusOngoing {
		t.Errorf("Status = %q, want ongoing", updated.Status)
	}

	line := updated.Lines[0]
	line.ActualAmount = 1800
	line.UpdatedAt = time.Now().UTC()
	if err := store.Projects.UpdateLine(ctx, &line); err != nil {
		t.Fatalf("UpdateLine() error = %v", err)
	}

	if err := store.Projects.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Projects.Get(ctx, "p1"); err == nil {
		t.Error("Get() after delete should fail")
	}
}

func TestProjectListFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	done := sampleProject("done", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	done.Status = constants.ProjectStatusCompleted
	for _, p := range []*entity.BudgetProject{
		sampleProject("p2025", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)),
		sampleProject("p2024", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)),
		done,
	} {
		if err := store.Projects.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) error = %v", p.ID, err)
		}
	}

	byYear, err := store.Projects.List(ctx, "", 2024)
	if err != nil {
		t.Fatalf("List(year) error = %v", err)
	}
	if len(byYear) != 2 {
		t.Errorf("List(2024) = %d projects, want 2", len(byYear))
	}

	byStatus, err := store.Projects.List(ctx, string(constants.ProjectStatusCompleted), 0)
	if err != nil {
		t.Fatalf("List(status) error = %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != "done" {
		t.Errorf("List(completed) = %d projects, want only done", len(byStatus))
	}
}
