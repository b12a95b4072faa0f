// Package accounts implements the bank account registry. Balances are
// maintained by callers; nothing here reconciles them against the ledger.
package accounts

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

// Service handles bank account business logic.
type Service struct {
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

// NewService creates a new account service.
func NewService(accountRepo repository.AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccountRequest represents account creation parameters.
type CreateAccountRequest struct {
	Name           string
	BankName       string
	CurrentBalance float64
}

// Create registers a funding account.
func (s *Service) Create(ctx context.Context, req CreateAccountRequest) (*entity.BankAccount, error) {
	validator := common.NewValidator()
	validator.Field("name", req.Name, common.Required, common.MaxLength(120))
	if err := common.ValidateAndReturnError(validator); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &entity.BankAccount{
		ID:             refcode.NewID(),
		Name:           strings.TrimSpace(req.Name),
		BankName:       strings.TrimSpace(req.BankName),
		CurrentBalance: money.Round2(req.CurrentBalance),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.accountRepo.Create(ctx, a); err != nil {
		return nil, common.WrapError(err, "create bank account")
	}
	s.logger.Info("bank account created", "id", a.ID, "name", a.Name)
	return a, nil
}

// UpdateAccountRequest carries a partial account update. The balance is an
// externally maintained figure, not recomputed from transactions.
type UpdateAccountRequest struct {
	Name           *string
	BankName       *string
	CurrentBalance *float64
	Active         *bool
}

// Update merges the supplied fields into an account.
func (s *Service) Update(ctx context.Context, id string, req UpdateAccountRequest) (*entity.BankAccount, error) {
	a, err := s.accountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		validator := common.NewValidator()
		validator.Field("name", *req.Name, common.Required, common.MaxLength(120))
		if err := common.ValidateAndReturnError(validator); err != nil {
			return nil, err
		}
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.BankName != nil {
		a.BankName = strings.TrimSpace(*req.BankName)
	}
	if req.CurrentBalance != nil {
		a.CurrentBalance = money.Round2(*req.CurrentBalance)
	}
	if req.Active != nil {
		a.Active = *req.Active
	}
	a.UpdatedAt = time.Now().UTC()

	if err := s.accountRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an account. Deletion is hard; there is no soft-removal.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.accountRepo.Delete(ctx, id); err != nil {
		return common.WrapError(err, "delete bank account")
	}
	s.logger.Info("bank account deleted", "id", id)
	return nil
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id string) (*entity.BankAccount, error) {
	return s.accountRepo.Get(ctx, id)
}

// List returns every account, active or not.
func (s *Service) List(ctx context.Context) ([]*entity.BankAccount, error) {
	return s.accountRepo.List(ctx)
}

// TotalBalance sums current_balance across active accounts. It is a
// point-in-time treasury figure; nothing guarantees it matches the ledger.
func (s *Service) TotalBalance(ctx context.Context) (float64, error) {
	return s.accountRepo.TotalBalance(ctx)
}
