package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
	"github.com/assotools/finledger/internal/refcode"
)

// Ledger entries reference categories by name only; the catalogue exists for
// pick-lists and ordering, not referential integrity.

// CreateCategoryRequest represents catalogue entry creation parameters.
type CreateCategoryRequest struct {
	Name      string
	Type      string
	IsDefault bool
	SortOrder int
}

// CreateCategory adds a catalogue entry.
func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*entity.TransactionCategory, error) {
	validator := common.NewValidator()
	validator.Field("name", req.Name, common.Required, common.MaxLength(120))
	validator.Field("type", req.Type, common.OneOf(constants.TypeIncome, constants.TypeExpense))

	if err := common.ValidateAndReturnError(validator); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cat := &entity.TransactionCategory{
		ID:        refcode.NewID(),
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		IsDefault: req.IsDefault,
		Active:    true,
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.catRepo.Create(ctx, cat); err != nil {
		return nil, common.WrapError(err, "create category")
	}
	s.logger.Info("category created", "id", cat.ID, "name", cat.Name)
	return cat, nil
}

// UpdateCategoryRequest carries a partial catalogue update.
type UpdateCategoryRequest struct {
	Name      *string
	IsDefault *bool
	SortOrder *int
}

// UpdateCategory merges the supplied fields into a catalogue entry.
func (s *Service) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*entity.TransactionCategory, error) {
	cat, err := s.catRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		validator := common.NewValidator()
		validator.Field("name", *req.Name, common.Required, common.MaxLength(120))
		if err := common.ValidateAndReturnError(validator); err != nil {
			return nil, err
		}
		cat.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsDefault != nil {
		cat.IsDefault = *req.IsDefault
	}
	if req.SortOrder != nil {
		cat.SortOrder = *req.SortOrder
	}
	cat.UpdatedAt = time.Now().UTC()

	if err := s.catRepo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeactivateCategory soft-deletes a catalogue entry by clearing its active
// flag. Categories are never physically removed.
func (s *Service) DeactivateCategory(ctx context.Context, id string) (*entity.TransactionCategory, error) {
	cat, err := s.catRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cat.Active = false
	cat.UpdatedAt = time.Now().UTC()

	if err := s.catRepo.Update(ctx, cat); err != nil {
		return nil, err
	}
	s.logger.Info("category deactivated", "id", id, "name", cat.Name)
	return cat, nil
}

// ListCategories returns the catalogue, optionally active entries only,
// ordered by sort order then name.
func (s *Service) ListCategories(ctx context.Context, activeOnly bool) ([]*entity.TransactionCategory, error) {
	return s.catRepo.List(ctx, activeOnly)
}
