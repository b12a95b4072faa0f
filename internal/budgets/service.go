// Package budgets implements the budget allocation tracker: annual category
// envelopes and ad-hoc project envelopes, tracked independently of the ledger.
package budgets

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
	"github.com/assotools/finledger/internal/money"
	"github.com/assotools/finledger/internal/refcode"
	"github.com/assotools/finledger/internal/repository"
)

// Service handles budget business logic.
type Service struct {
	budgetRepo repository.BudgetRepository
	logger     *slog.Logger
}

// NewService creates a new budget service.
func NewService(budgetRepo repository.BudgetRepository, logger *slog.Logger) *Service {
	return &Service{
		budgetRepo: budgetRepo,
		logger:     logger,
	}
}

// CategoryInput is one envelope of an annual budget.
type CategoryInput struct {
	Name            string
	AllocatedAmount float64
	Notes           *string
}

// CreateBudgetRequest represents annual budget creation parameters.
type CreateBudgetRequest struct {
	Year          int
	TotalBudget   float64
	TargetEvents  *int
	TargetRevenue *float64
	TargetMargin  *float64
	Categories    []CategoryInput
}

// CreateBudget creates an annual budget and its category envelopes as one
// atomic unit.
func (s *Service) CreateBudget(ctx context.Context, req CreateBudgetRequest) (*entity.Budget, error) {
	if req.Year <= 0 {
		return nil, common.ValidationError("budget year is required")
	}
	if err := validateCategories(req.Categories); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &entity.Budget{
		ID:            refcode.NewID(),
		Year:          req.Year,
		TotalBudget:   money.Round2(req.TotalBudget),
		TargetEvents:  req.TargetEvents,
		TargetRevenue: req.TargetRevenue,
		TargetMargin:  req.TargetMargin,
		Categories:    buildCategories(refcode.NewID, req.Categories, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range b.Categories {
		b.Categories[i].BudgetID = b.ID
	}

	if err := s.budgetRepo.Create(ctx, b); err != nil {
		return nil, common.WrapError(err, "create budget")
	}
	s.logger.Info("budget created", "id", b.ID, "year", b.Year, "categories", len(b.Categories))
	return b, nil
}

// UpdateBudgetRequest carries a partial budget update. Supplying Categories
// triggers a full replacement of the envelope set: every prior row is
// discarded, including its accumulated spent_amount. Omitting Categories
// leaves the existing envelopes untouched.
type UpdateBudgetRequest struct {
	Year          *int
	TotalBudget   *float64
	TargetEvents  *int
	TargetRevenue *float64
	TargetMargin  *float64
	Categories    *[]CategoryInput
}

// UpdateBudget merges budget fields and optionally replaces the category set.
func (s *Service) UpdateBudget(ctx context.Context, id string, req UpdateBudgetRequest) (*entity.Budget, error) {
	b, err := s.budgetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Year != nil {
		b.Year = *req.Year
	}
	if req.TotalBudget != nil {
		b.TotalBudget = money.Round2(*req.TotalBudget)
	}
	if req.TargetEvents != nil {
		b.TargetEvents = req.TargetEvents
	}
	if req.TargetRevenue != nil {
		b.TargetRevenue = req.TargetRevenue
	}
	if req.TargetMargin != nil {
		b.TargetMargin = req.TargetMargin
	}

	replace := req.Categories != nil
	if replace {
		if err := validateCategories(*req.Categories); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		b.Categories = buildCategories(refcode.NewID, *req.Categories, now)
		for i := range b.Categories {
			b.Categories[i].BudgetID = b.ID
		}
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.budgetRepo.Update(ctx, b, replace); err != nil {
		return nil, err
	}
	if replace {
		s.logger.Info("budget categories replaced", "id", id, "categories", len(b.Categories))
	}
	return b, nil
}

// DeleteBudget removes a budget and its envelopes.
func (s *Service) DeleteBudget(ctx context.Context, id string) error {
	if err := s.budgetRepo.Delete(ctx, id); err != nil {
		return common.WrapError(err, "delete budget")
	}
	s.logger.Info("budget deleted", "id", id)
	return nil
}

// GetBudget returns one budget with its envelopes.
func (s *Service) GetBudget(ctx context.Context, id string) (*entity.Budget, error) {
	return s.budgetRepo.Get(ctx, id)
}

// ListBudgets returns all annual budgets, most recent year first.
func (s *Service) ListBudgets(ctx context.Context) ([]*entity.Budget, error) {
	return s.budgetRepo.List(ctx)
}

// UpdateCategorySpent writes a spent amount onto one envelope. The field is a
// snapshot maintained by callers, not derived from the ledger.
func (s *Service) UpdateCategorySpent(ctx context.Context, budgetID, categoryID string, spent float64) (*entity.BudgetCategory, error) {
	b, err := s.budgetRepo.Get(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	for i := range b.Categories {
		if b.Categories[i].ID == categoryID {
			cat := &b.Categories[i]
			cat.SpentAmount = money.Round2(spent)
			cat.UpdatedAt = time.Now().UTC()
			if err := s.budgetRepo.UpdateCategory(ctx, cat); err != nil {
				return nil, err
			}
			return cat, nil
		}
	}
	return nil, common.NotFoundErrorf("budget category %s in budget %s", categoryID, budgetID)
}

// SpentToDate is the live alternative to the stored spent_amount snapshots:
// validated and reconciled expense entries summed per ledger category for one
// fiscal year. It reads the ledger directly and is never persisted.
func (s *Service) SpentToDate(ctx context.Context, year int) (map[string]float64, error) {
	return s.budgetRepo.SpentByCategory(ctx, year)
}

func validateCategories(cats []CategoryInput) error {
	for _, c := range cats {
		validator := common.NewValidator()
		validator.Field("category name", c.Name, common.Required)
		validator.Field("allocated_amount", c.AllocatedAmount, common.NonNegative)
		if err := common.ValidateAndReturnError(validator); err != nil {
			return err
		}
	}
	return nil
}

func buildCategories(newID func() string, inputs []CategoryInput, now time.Time) []entity.BudgetCategory {
	cats := make([]entity.BudgetCategory, len(inputs))
	for i, in := range inputs {
		cats[i] = entity.BudgetCategory{
			ID:              newID(),
			Name:            strings.TrimSpace(in.Name),
			AllocatedAmount: money.Round2(in.AllocatedAmount),
			SpentAmount:     0,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}
	return cats
}
