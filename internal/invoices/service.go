// Package invoices implements the invoice & quote engine: document creation
// with computed line totals, full line-set replacement, and the paid
// transition.
package invoices

import (
	"context"
	"fmt"
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

// Service handles invoice business logic.
type Service struct {
	invRepo repository.InvoiceRepository
	logger  *slog.Logger
}

// NewService creates a new invoice service.
func NewService(invRepo repository.InvoiceRepository, logger *slog.Logger) *Service {
	return &Service{
		invRepo: invRepo,
		logger:  logger,
	}
}

// LineInput is one line of a document as supplied by the caller; the three
// amounts are computed here, never accepted from outside.
type LineInput struct {
	Description      string
	Quantity         float64
	UnitPriceExclTax float64
	VATRate          float64
}

// CreateInvoiceRequest represents document creation parameters. The document
// and its full line set are created atomically.
type CreateInvoiceRequest struct {
	Type          string
	IssueDate     time.Time
	DueDate       *time.Time
	ClientType    string
	ClientName    string
	ClientEmail   *string
	ClientAddress *string
	Category      string
	PaymentTerms  *string
	Notes         *string
	Lines         []LineInput
}

// Create builds the document: the id is generated first, the number is then
// derived from that id (DEV prefix for quotes, FAC for invoices), and every
// line's three amounts are computed and rounded before the document totals
// are summed.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest) (*entity.Invoice, error) {
	if err := validateHeader(req.Type, req.ClientType, req.ClientName); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, common.ValidationError("an invoice requires at least one line")
	}
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := refcode.NewID()

	prefix := constants.PrefixInvoice
	status := constants.InvoiceStatusPending
	if req.Type == constants.DocTypeQuote {
		prefix = constants.PrefixQuote
		status = constants.InvoiceStatusQuote
	}

	inv := &entity.Invoice{
		ID:            id,
		InvoiceNumber: refcode.ReferenceCode(prefix, id, refcode.DefaultLength),
		Type:          req.Type,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		ClientType:    req.ClientType,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,
		Category:      strings.TrimSpace(req.Category),
		Status:        status,
		PaymentTerms:  req.PaymentTerms,
		Notes:         req.Notes,
		Lines:         computeLines(id, req.Lines),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyTotals(inv)

	if err := s.invRepo.Create(ctx, inv); err != nil {
		return nil, common.WrapError(err, "create invoice")
	}

	s.logger.Info("invoice created", "id", inv.ID, "number", inv.InvoiceNumber, "type", inv.Type, "total", inv.TotalInclTax)
	return inv, nil
}

// UpdateInvoiceRequest carries a partial header update plus an optional full
// line-set replacement. Supplying Lines discards every existing line; there
// is no per-line patch. An explicitly empty slice empties the document.
type UpdateInvoiceRequest struct {
	IssueDate     *time.Time
	DueDate       *time.Time
	ClientType    *string
	ClientName    *string
	ClientEmail   *string
	ClientAddress *string
	Category      *string
	Status        *constants.InvoiceStatus
	PaymentTerms  *string
	Notes         *string
	Lines         *[]LineInput
}

// Update merges header fields and, when lines are supplied, replaces the
// entire line set re-indexed from zero and recomputes the totals. Header and
// lines are written as one atomic unit.
func (s *Service) Update(ctx context.Context, id string, req UpdateInvoiceRequest) (*entity.Invoice, error) {
	inv, err := s.invRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientType != nil {
		validator := common.NewValidator()
		validator.Field("client_type", *req.ClientType, common.OneOf(constants.ClientTypeClient, constants.ClientTypeSupplier))
		if err := common.ValidateAndReturnError(validator); err != nil {
			return nil, err
		}
		inv.ClientType = *req.ClientType
	}
	if req.ClientName != nil {
		validator := common.NewValidator()
		validator.Field("client_name", *req.ClientName, common.Required)
		if err := common.ValidateAndReturnError(validator); err != nil {
			return nil, err
		}
		inv.ClientName = strings.TrimSpace(*req.ClientName)
	}
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.ClientEmail != nil {
		inv.ClientEmail = req.ClientEmail
	}
	if req.ClientAddress != nil {
		inv.ClientAddress = req.ClientAddress
	}
	if req.Category != nil {
		inv.Category = strings.TrimSpace(*req.Category)
	}
	if req.Status != nil {
		if !constants.KnownInvoiceStatus(*req.Status) {
			return nil, common.ValidationError("unknown invoice status " + string(*req.Status))
		}
		inv.Status = *req.Status
	}
	if req.PaymentTerms != nil {
		inv.PaymentTerms = req.PaymentTerms
	}
	if req.Notes != nil {
		inv.Notes = req.Notes
	}

	replaceLines := req.Lines != nil
	if replaceLines {
		if err := validateLines(*req.Lines); err != nil {
			return nil, err
		}
		inv.Lines = computeLines(inv.ID, *req.Lines)
		applyTotals(inv)
	}
	inv.UpdatedAt = time.Now().UTC()

	if err := s.invRepo.Update(ctx, inv, replaceLines); err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes a document and all of its lines.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.invRepo.Delete(ctx, id); err != nil {
		return common.WrapError(err, "delete invoice")
	}
	s.logger.Info("invoice deleted", "id", id)
	return nil
}

// MarkAsPaid sets the paid status and date; paidDate defaults to now.
func (s *Service) MarkAsPaid(ctx context.Context, id string, paidDate *time.Time) (*entity.Invoice, error) {
	inv, err := s.invRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	when := now
	if paidDate != nil {
		when = *paidDate
	}
	inv.Status = constants.InvoiceStatusPaid
	inv.PaidDate = &when
	inv.UpdatedAt = now

	if err := s.invRepo.Update(ctx, inv, false); err != nil {
		return nil, err
	}
	s.logger.Info("invoice marked as paid", "id", id, "paid_date", when)
	return inv, nil
}

// Get returns one document with its lines.
func (s *Service) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	return s.invRepo.Get(ctx, id)
}

// List returns documents filtered by type and status; empty strings mean no
// filter.
func (s *Service) List(ctx context.Context, docType, status string) ([]*entity.Invoice, error) {
	return s.invRepo.List(ctx, docType, status)
}

// ListOverdue returns pending invoices whose due date has passed. It is a
// read-only sweep; statuses are never mutated in bulk.
func (s *Service) ListOverdue(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error) {
	return s.invRepo.ListOverdue(ctx, asOf)
}

func validateHeader(docType, clientType, clientName string) error {
	validator := common.NewValidator()
	validator.Field("type", docType, common.OneOf(constants.DocTypeInvoice, constants.DocTypeQuote))
	validator.Field("client_type", clientType, common.OneOf(constants.ClientTypeClient, constants.ClientTypeSupplier))
	validator.Field("client_name", clientName, common.Required)
	return common.ValidateAndReturnError(validator)
}

func validateLines(lines []LineInput) error {
	for i, l := range lines {
		validator := common.NewValidator()
		field := fmt.Sprintf("lines[%d].", i)
		validator.Field(field+"description", l.Description, common.Required)
		validator.Field(field+"quantity", l.Quantity, common.NonNegative)
		validator.Field(field+"unit_price_excl_tax", l.UnitPriceExclTax, common.NonNegative)
		validator.Field(field+"vat_rate", l.VATRate, common.NonNegative)
		if err := common.ValidateAndReturnError(validator); err != nil {
			return err
		}
	}
	return nil
}

// computeLines derives each line's three amounts, rounding each to 2 decimals
// independently: excl = round2(qty x unit_price), vat = round2(excl x rate/100),
// incl = excl + vat. This ordering must match any printed document.
func computeLines(invoiceID string, inputs []LineInput) []entity.InvoiceLine {
	lines := make([]entity.InvoiceLine, len(inputs))
	for i, in := range inputs {
		excl := money.MulRound2(in.Quantity, in.UnitPriceExclTax)
		vat := money.PercentRound2(excl, in.VATRate)
		lines[i] = entity.InvoiceLine{
			ID:               refcode.NewID(),
			InvoiceID:        invoiceID,
			Description:      strings.TrimSpace(in.Description),
			Quantity:         in.Quantity,
			UnitPriceExclTax: in.UnitPriceExclTax,
			VATRate:          in.VATRate,
			OrderIndex:       i,
			AmountExclTax:    excl,
			AmountVAT:        vat,
			AmountInclTax:    money.Sum(excl, vat),
		}
	}
	return lines
}

// applyTotals sums the already-rounded line amounts; the sums themselves are
// never re-rounded.
func applyTotals(inv *entity.Invoice) {
	excl := make([]float64, len(inv.Lines))
	vat := make([]float64, len(inv.Lines))
	incl := make([]float64, len(inv.Lines))
	for i, l := range inv.Lines {
		excl[i] = l.AmountExclTax
		vat[i] = l.AmountVAT
		incl[i] = l.AmountInclTax
	}
	inv.SubtotalExclTax = money.Sum(excl...)
	inv.TotalVAT = money.Sum(vat...)
	inv.TotalInclTax = money.Sum(incl...)
}
