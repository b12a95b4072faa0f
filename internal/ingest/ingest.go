package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
	"github.com/assotools/finledger/internal/ledger"
)

// EntryInput is one ledger entry as it appears in an import payload.
type EntryInput struct {
	Type          string   `json:"type"`
	Date          string   `json:"date"`
	Label         string   `json:"label"`
	Amount        float64  `json:"amount"`
	Category      string   `json:"category"`
	FiscalYear    int      `json:"fiscal_year"`
	VATApplicable bool     `json:"vat_applicable"`
	VATRate       *float64 `json:"vat_rate"`
	EventID       *string  `json:"event_id"`
	ContactID     *string  `json:"contact_id"`
	ProjectID     *string  `json:"project_id"`
}

type payload struct {
	Entries []EntryInput `json:"entries"`
}

// Result summarizes an import run. Failed entries are reported with their
// payload index so the caller can point at the offending record.
type Result struct {
	Created []*entity.Transaction
	Failed  []EntryError
}

// EntryError ties an import failure to the entry's position in the payload.
type EntryError struct {
	Index int
	Err   error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

// Service validates import payloads against a JSON schema and records the
// entries through the ledger.
type Service struct {
	ledger *ledger.Service
	schema *jsonschema.Schema
	logger *slog.Logger
}

func NewService(ledgerSvc *ledger.Service, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("entries.json", strings.NewReader(entriesSchema)); err != nil {
		return nil, fmt.Errorf("add entries schema: %w", err)
	}
	schema, err := compiler.Compile("entries.json")
	if err != nil {
		return nil, fmt.Errorf("compile entries schema: %w", err)
	}
	return &Service{ledger: ledgerSvc, schema: schema, logger: logger}, nil
}

// ImportFile reads a JSON payload from path and imports its entries.
func (s *Service) ImportFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError("INVALID_INPUT", fmt.Sprintf("read %s", path), err)
	}
	return s.Import(ctx, data)
}

// Import validates data against the entries schema, then records every entry.
// Validation failures reject the whole payload; per-entry creation failures
// are collected in the result without aborting the remaining entries.
func (s *Service) Import(ctx context.Context, data []byte) (*Result, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, common.NewAppError("INVALID_INPUT", "payload is not valid JSON", err)
	}
	if err := s.schema.Validate(raw); err != nil {
		return nil, common.NewAppError("VALIDATION", "payload does not match the entries schema", err)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, common.NewAppError("INVALID_INPUT", "decode payload", err)
	}

	result := &Result{}
	for i, in := range p.Entries {
		date, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			result.Failed = append(result.Failed, EntryError{Index: i, Err: err})
			continue
		}
		created, err := s.ledger.Create(ctx, ledger.CreateTransactionRequest{
			Type:          in.Type,
			Date:          date,
			Label:         in.Label,
			Amount:        in.Amount,
			Category:      in.Category,
			FiscalYear:    in.FiscalYear,
			EventID:       in.EventID,
			ContactID:     in.ContactID,
			ProjectID:     in.ProjectID,
			VATApplicable: in.VATApplicable,
			VATRate:       in.VATRate,
		})
		if err != nil {
			result.Failed = append(result.Failed, EntryError{Index: i, Err: err})
			continue
		}
		result.Created = append(result.Created, created)
	}

	s.logger.Info("imported entries", "created", len(result.Created), "failed", len(result.Failed))
	return result, nil
}
