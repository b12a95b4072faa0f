package budgets

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/entity"
	"github.com/assotools/finledger/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
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
	return repository.NewStore(db, logger)
}

func newTestService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	store := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store.Budgets, logger), store
}

func TestCreateBudgetWithCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	b, err := svc.CreateBudget(ctx, CreateBudgetRequest{
		Year:        2025,
		TotalBudget: 10000.005,
		Categories: []CategoryInput{
			{Name: "cachets", AllocatedAmount: 6000},
			{Name: "location", AllocatedAmount: 4000},
		},
	})
	if err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}

	if b.TotalBudget != 10000.01 {
		t.Errorf("TotalBudget = %v, want rounded to 10000.01", b.TotalBudget)
	}
	if len(b.Categories) != 2 {
		t.Fatalf("len(Categories) = %d, want 2", len(b.Categories))
	}
	for _, c := range b.Categories {
		if c.BudgetID != b.ID {
			t.Errorf("category %s not linked to budget", c.Name)
		}
		if c.SpentAmount != 0 {
			t.Errorf("SpentAmount = %v, want 0 on creation", c.SpentAmount)
		}
	}

	stored, err := svc.GetBudget(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	if len(stored.Categories) != 2 {
		t.Errorf("stored categories = %d, want 2", len(stored.Categories))
	}
}

func TestCreateBudgetRequiresYear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.CreateBudget(ctx, CreateBudgetRequest{TotalBudget: 100}); err == nil {
		t.Error("CreateBudget() without a year should fail")
	}
}

func TestUpdateBudgetReplacesCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	b, err := svc.CreateBudget(ctx, CreateBudgetRequest{
		Year:        2025,
		TotalBudget: 1000,
		Categories:  []CategoryInput{{Name: "cachets", AllocatedAmount: 1000}},
	})
	if err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}

	replacement := []CategoryInput{
		{Name: "communication", AllocatedAmount: 300},
		{Name: "technique", AllocatedAmount: 700},
	}
	got, err := svc.UpdateBudget(ctx, b.ID, UpdateBudgetRequest{Categories: &replacement})
	if err != nil {
		t.Fatalf("UpdateBudget() error = %v", err)
	}
	if len(got.Categories) != 2 {
		t.Fatalf("len(Categories) = %d, want 2 replacement envelopes", len(got.Categories))
	}

	stored, err := svc.GetBudget(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	names := map[string]bool{}
	for _, c := range stored.Categories {
		names[c.Name] = true
	}
	if names["cachets"] || !names["communication"] || !names["technique"] {
		t.Errorf("stored envelope names = %v", names)
	}
}

func TestUpdateBudgetWithoutCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	b, err := svc.CreateBudget(ctx, CreateBudgetRequest{
		Year:        2025,
		TotalBudget: 1000,
		Categories:  []CategoryInput{{Name: "cachets", AllocatedAmount: 1000}},
	})
	if err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}

	total := 2000.0
	if _, err := svc.UpdateBudget(ctx, b.ID, UpdateBudgetRequest{TotalBudget: &total}); err != nil {
		t.Fatalf("UpdateBudget() error = %v", err)
	}

	stored, err := svc.GetBudget(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	if stored.TotalBudget != 2000 {
		t.Errorf("TotalBudget = %v, want 2000", stored.TotalBudget)
	}
	if len(stored.Categories) != 1 {
		t.Errorf("len(Categories) = %d, want the untouched envelope", len(stored.Categories))
	}
}

func TestUpdateCategorySpent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	b, err := svc.CreateBudget(ctx, CreateBudgetRequest{
		Year:        2025,
		TotalBudget: 1000,
		Categories:  []CategoryInput{{Name: "cachets", AllocatedAmount: 1000}},
	})
	if err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}

	cat, err := svc.UpdateCategorySpent(ctx, b.ID, b.Categories[0].ID, 350.004)
	if err != nil {
		t.Fatalf("UpdateCategorySpent() error = %v", err)
	}
	if cat.SpentAmount != 350 {
		t.Errorf("SpentAmount = %v, want 350", cat.SpentAmount)
	}
}

func TestSpentToDate(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	now := time.Now().UTC()
	mk := func(id string, status constants.TxStatus, amount float64) {
		tx := &entity.Transaction{
			ID: id, EntryNumber: "TRA-" + id, Type: constants.TypeExpense,
			Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Label: "x",
			Amount: amount, Category: "cachets", FiscalYear: 2025,
			Debit: amount, Status: status, CreatedAt: now, UpdatedAt: now,
		}
		if err := store.Transactions.Create(ctx, tx); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}
	mk("ok1", constants.TxStatusValidated, 100)
	mk("ok2", constants.TxStatusReconciled, 50)
	mk("skip", constants.TxStatusPending, 999)

	spent, err := svc.SpentToDate(ctx, 2025)
	if err != nil {
		t.Fatalf("SpentToDate() error = %v", err)
	}
	if spent["cachets"] != 150 {
		t.Errorf("spent[cachets] = %v, want 150", spent["cachets"])
	}
}

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewProjectService(store.Projects, logger)

	p, err := svc.CreateProject(ctx, CreateProjectRequest{
		Title:     "Tournée de printemps",
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Lines: []ProjectLineInput{
			{Label: "transport", AllocatedAmount: 1200},
		},
	})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if p.Status != constants.ProjectStatusPlanned {
		t.Errorf("Status = %q, want default planned", p.Status)
	}
	if len(p.Lines) != 1 || p.Lines[0].ActualAmount != 0 {
		t.Errorf("Lines = %+v", p.Lines)
	}

	line, err := svc.CreateProjectLine(ctx, p.ID, ProjectLineInput{Label: "hébergement", AllocatedAmount: 800})
	if err != nil {
		t.Fatalf("CreateProjectLine() error = %v", err)
	}

	actual := 750.0
	updated, err := svc.UpdateProjectLine(ctx, p.ID, line.ID, UpdateProjectLineRequest{ActualAmount: &actual})
	if err != nil {
		t.Fatalf("UpdateProjectLine() error = %v", err)
	}
	if updated.ActualAmount != 750 {
		t.Errorf("ActualAmount = %v, want 750", updated.ActualAmount)
	}

	stored, err := svc.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if len(stored.Lines) != 2 {
		t.Errorf("len(Lines) = %d, want 2", len(stored.Lines))
	}

	if err := svc.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if _, err := svc.GetProject(ctx, p.ID); err == nil {
		t.Error("GetProject() after delete should fail")
	}
}

func TestCreateProjectLineMissingProject(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewProjectService(store.Projects, logger)

	if _, err := svc.CreateProjectLine(ctx, "absent", ProjectLineInput{Label: "x", AllocatedAmount: 1}); err == nil {
		t.Error("CreateProjectLine() on a missing project should fail")
	}
}
