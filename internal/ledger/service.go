// Package ledger implements the transaction ledger: entry creation with
// derived fields, partial updates, and the validate/reconcile lifecycle.
package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
	"github.com/assotools/finledger/internal/money"
	"github.com/assotools/finledger/internal/refcode"
	"github.com/assotools/finledger/internal/repository"
)

// Service handles ledger business logic.
type Service struct {
	txRepo  repository.TransactionRepository
	catRepo repository.CategoryRepository
	logger  *slog.Logger
}

// NewService creates a new ledger service.
func NewService(txRepo repository.TransactionRepository, catRepo repository.CategoryRepository, logger *slog.Logger) *Service {
	return &Service{
		txRepo:  txRepo,
		catRepo: catRepo,
		logger:  logger,
	}
}

// CreateTransactionRequest represents ledger entry creation parameters.
type CreateTransactionRequest struct {
	Type          string
	Date          time.Time
	Label         string
	Amount        float64
	Category      string
	FiscalYear    int                   // zero derives it from Date
	EventID       *string
	ContactID     *string
	ProjectID     *string
	VATApplicable bool
	VATRate       *float64
	AmountExclTax *float64
	Advance       *entity.MemberAdvance
}

// Create records a new ledger entry. The entry number is derived from the
// generated id, the fiscal year from the date when not supplied, and
// debit/credit from the entry type.
func (s *Service) Create(ctx context.Context, req CreateTransactionRequest) (*entity.Transaction, error) {
	validator := common.NewValidator()
	validator.Field("type", req.Type, common.OneOf(constants.TypeIncome, constants.TypeExpense))
	validator.Field("label", req.Label, common.Required)
	validator.Field("amount", req.Amount, common.Positive)
	validator.Field("date", req.Date, common.NotZeroTime)

	if err := common.ValidateAndReturnError(validator); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := refcode.NewID()

	fiscalYear := req.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = req.Date.Year()
	}

	amount := money.Round2(req.Amount)
	t := &entity.Transaction{
		ID:            id,
		EntryNumber:   refcode.ReferenceCode(constants.PrefixTransaction, id, refcode.DefaultLength),
		Type:          req.Type,
		Date:          req.Date,
		Label:         strings.TrimSpace(req.Label),
		Amount:        amount,
		Category:      strings.TrimSpace(req.Category),
		FiscalYear:    fiscalYear,
		Status:        constants.TxStatusPending,
		Reconciled:    false,
		EventID:       req.EventID,
		ContactID:     req.ContactID,
		ProjectID:     req.ProjectID,
		VATApplicable: req.VATApplicable,
		VATRate:       req.VATRate,
		AmountExclTax: req.AmountExclTax,
		Advance:       req.Advance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applySides(t)

	if err := s.txRepo.Create(ctx, t); err != nil {
		return nil, common.WrapError(err, "create transaction")
	}

	s.logger.Info("transaction created", "id", t.ID, "entry_number", t.EntryNumber, "type", t.Type, "amount", t.Amount)
	return t, nil
}

// UpdateTransactionRequest carries a partial update; nil fields are left
// untouched. The entry number is immutable and cannot appear here.
type UpdateTransactionRequest struct {
	Type          *string
	Date          *time.Time
	Label         *string
	Amount        *float64
	Category      *string
	FiscalYear    *int
	Status        *constants.TxStatus
	EventID       *string
	ContactID     *string
	ProjectID     *string
	VATApplicable *bool
	VATRate       *float64
	AmountExclTax *float64
	Advance       *entity.MemberAdvance
}

// Update merges the supplied fields into the stored entry and refreshes
// updated_at. Debit and credit are re-derived when type or amount change.
func (s *Service) Update(ctx context.Context, id string, req UpdateTransactionRequest) (*entity.Transaction, error) {
	t, err := s.txRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		validator := common.NewValidator()
		validator.Field("type", *req.Type, common.OneOf(constants.TypeIncome, constants.TypeExpense))
		if err := common.ValidateAndReturnError(validator); err != nil {
			return nil, err
		}
		t.Type = *req.Type
	}
	if req.Amount != nil {
		validator := common.NewValidator()
		validator.Field("amount", *req.Amount, common.Positive)
		if err := common.ValidateAndReturnError(validator); err != nil {
			return nil, err
		}
		t.Amount = money.Round2(*req.Amount)
	}
	if req.Date != nil {
		t.Date = *req.Date
	}
	if req.Label != nil {
		t.Label = strings.TrimSpace(*req.Label)
	}
	if req.Category != nil {
		t.Category = strings.TrimSpace(*req.Category)
	}
	if req.FiscalYear != nil {
		t.FiscalYear = *req.FiscalYear
	}
	if req.Status != nil {
		if !constants.KnownTxStatus(*req.Status) {
			return nil, common.ValidationError("unknown transaction status " + string(*req.Status))
		}
		t.Status = *req.Status
	}
	if req.EventID != nil {
		t.EventID = req.EventID
	}
	if req.ContactID != nil {
		t.ContactID = req.ContactID
	}
	if req.ProjectID != nil {
		t.ProjectID = req.ProjectID
	}
	if req.VATApplicable != nil {
		t.VATApplicable = *req.VATApplicable
	}
	if req.VATRate != nil {
		t.VATRate = req.VATRate
	}
	if req.AmountExclTax != nil {
		t.AmountExclTax = req.AmountExclTax
	}
	if req.Advance != nil {
		t.Advance = req.Advance
	}

	applySides(t)
	t.UpdatedAt = time.Now().UTC()

	if err := s.txRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes an entry unconditionally. No audit trace is kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.txRepo.Delete(ctx, id); err != nil {
		return common.WrapError(err, "delete transaction")
	}
	s.logger.Info("transaction deleted", "id", id)
	return nil
}

// List returns entries for a fiscal year, or all entries sorted by date
// descending when year is zero.
func (s *Service) List(ctx context.Context, year int) ([]*entity.Transaction, error) {
	return s.txRepo.List(ctx, year)
}

// Get returns one entry by id.
func (s *Service) Get(ctx context.Context, id string) (*entity.Transaction, error) {
	return s.txRepo.Get(ctx, id)
}

// Validate marks an entry as checked by actorID. There is no precondition on
// the current status; the call is idempotent and order-free.
func (s *Service) Validate(ctx context.Context, id, actorID string) (*entity.Transaction, error) {
	t, err := s.txRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !constants.CanTransition(t.Status, constants.TxStatusValidated) {
		return nil, common.ValidationError("cannot validate transaction in status " + string(t.Status))
	}

	now := time.Now().UTC()
	t.Status = constants.TxStatusValidated
	t.ValidatedBy = &actorID
	t.ValidatedAt = &now
	t.UpdatedAt = now

	if err := s.txRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("transaction validated", "id", id, "actor_id", actorID)
	return t, nil
}

// Reconcile marks an entry as matched against a bank statement. Like
// Validate, it carries no precondition on the current status.
func (s *Service) Reconcile(ctx context.Context, id string) (*entity.Transaction, error) {
	t, err := s.txRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !constants.CanTransition(t.Status, constants.TxStatusReconciled) {
		return nil, common.ValidationError("cannot reconcile transaction in status " + string(t.Status))
	}

	now := time.Now().UTC()
	t.Status = constants.TxStatusReconciled
	t.Reconciled = true
	t.ReconciledAt = &now
	t.UpdatedAt = now

	if err := s.txRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("transaction reconciled", "id", id)
	return t, nil
}

// applySides derives debit/credit from the entry type so that exactly one of
// them is non-zero and equals the amount.
func applySides(t *entity.Transaction) {
	if t.Type == constants.TypeExpense {
		t.Debit = t.Amount
		t.Credit = 0
	} else {
		t.Credit = t.Amount
		t.Debit = 0
	}
}
