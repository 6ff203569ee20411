package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bizcoreapp/bizcore_backend/internal/middleware"

	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/smartcode"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/ledger"
)

// Guardrail issue codes. Errors block persistence; warnings never do.
const (
	CodeTenantMissing        = "TENANT_MISSING"
	CodeTenantMismatch       = "TENANT_MISMATCH"
	CodeSmartCodeInvalid     = "SMART_CODE_INVALID"
	CodeSmartCodeVersion     = "SMART_CODE_VERSION"
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeLedgerUnbalanced     = "LEDGER_UNBALANCED"
	CodeFuturePostingDate    = "FUTURE_POSTING_DATE"
	CodeStalePostingDate     = "STALE_POSTING_DATE"
)

// stalePostingCutoff is how far in the past a posting date may sit before a
// warning is raised.
const stalePostingCutoff = 90 * 24 * time.Hour

// requiredFieldsByOperation registers which payload fields must be present
// per operation type. Unregistered operations only get the structural checks.
var requiredFieldsByOperation = map[string][]string{
	"entity.upsert":       {"entity_type", "entity_name", "smart_code"},
	"field.set":           {"entity_id", "field_name", "field_type", "smart_code"},
	"relationship.create": {"from_entity_id", "to_entity_id", "relationship_type", "smart_code"},
	"transaction.create":  {"transaction_type", "smart_code", "transaction_date"},
}

var guardrailBlocksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bizcore_guardrail_blocks_total",
		Help: "Writes rejected by the guardrail engine, by issue code.",
	},
	[]string{"code"},
)

// guardrailService runs the ordered pre-commit checks. It is stateless apart
// from the validator instance and safe for concurrent use.
type guardrailService struct {
	validate *validator.Validate
}

// NewGuardrailService creates a new guardrail engine.
func NewGuardrailService() portssvc.GuardrailSvcFacade {
	return &guardrailService{validate: validator.New()}
}

var _ portssvc.GuardrailSvcFacade = (*guardrailService)(nil)

// Validate runs the checks in a fixed order so the first structural failure
// (tenant, smart code) short-circuits the more expensive ones. The engine
// only reports; it never mutates the payload.
func (s *guardrailService) Validate(ctx context.Context, organizationID string, payload dto.GuardrailPayload) dto.GuardrailResult {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := dto.GuardrailResult{Valid: true}

	// 1. Tenant presence and match.
	if payload.OrganizationID == "" {
		return s.block(logger, result, dto.GuardrailIssue{
			Field:   "organization_id",
			Code:    CodeTenantMissing,
			Message: "organization_id is required on every operation",
		})
	}
	if organizationID != "" && payload.OrganizationID != organizationID {
		return s.block(logger, result, dto.GuardrailIssue{
			Field:   "organization_id",
			Code:    CodeTenantMismatch,
			Message: fmt.Sprintf("payload organization %s does not match request scope %s", payload.OrganizationID, organizationID),
		})
	}

	// 2. Smart code format, header then lines.
	if issue := smartCodeIssue("smart_code", payload.SmartCode); issue != nil {
		return s.block(logger, result, *issue)
	}
	for _, line := range payload.Lines {
		field := fmt.Sprintf("lines[%d].smart_code", line.LineNumber)
		if issue := smartCodeIssue(field, line.SmartCode); issue != nil {
			return s.block(logger, result, *issue)
		}
	}

	// 3. Required fields for the operation type.
	for _, name := range requiredFieldsByOperation[payload.Operation] {
		if err := s.validate.Var(payload.Fields[name], "required"); err != nil {
			result.Errors = append(result.Errors, dto.GuardrailIssue{
				Field:   name,
				Code:    CodeRequiredFieldMissing,
				Message: fmt.Sprintf("field %s is required for %s", name, payload.Operation),
			})
		}
	}

	// 4. Ledger balance, financial transactions only.
	if payload.Transaction != nil && payload.Transaction.IsFinancial() {
		if status, delta := ledger.ValidateBalance(*payload.Transaction, payload.Lines); status == ledger.Unbalanced {
			result.Errors = append(result.Errors, dto.GuardrailIssue{
				Field:   "lines",
				Code:    CodeLedgerUnbalanced,
				Message: fmt.Sprintf("line amounts sum to %s, expected 0", delta.String()),
			})
		}
	}

	// 5. Posting date sanity. Warnings only, never blocking.
	if payload.PostingDate != nil {
		now := time.Now().UTC()
		if payload.PostingDate.After(now) {
			result.Warnings = append(result.Warnings, dto.GuardrailIssue{
				Field:   "transaction_date",
				Code:    CodeFuturePostingDate,
				Message: "posting date is in the future",
			})
		} else if now.Sub(*payload.PostingDate) > stalePostingCutoff {
			result.Warnings = append(result.Warnings, dto.GuardrailIssue{
				Field:   "transaction_date",
				Code:    CodeStalePostingDate,
				Message: "posting date is more than 90 days in the past",
			})
		}
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		for _, issue := range result.Errors {
			guardrailBlocksTotal.WithLabelValues(issue.Code).Inc()
		}
		logger.Warn("Guardrail blocked write",
			slog.String("operation", payload.Operation),
			slog.Int("error_count", len(result.Errors)),
		)
	}
	return result
}

func (s *guardrailService) block(logger *slog.Logger, result dto.GuardrailResult, issue dto.GuardrailIssue) dto.GuardrailResult {
	result.Valid = false
	result.Errors = append(result.Errors, issue)
	guardrailBlocksTotal.WithLabelValues(issue.Code).Inc()
	logger.Warn("Guardrail blocked write", slog.String("code", issue.Code), slog.String("field", issue.Field))
	return result
}

func smartCodeIssue(field, code string) *dto.GuardrailIssue {
	switch err := smartcode.Validate(code); err {
	case nil:
		return nil
	case smartcode.ErrInvalidVersion:
		v := smartcode.Version(code)
		return &dto.GuardrailIssue{
			Field:   field,
			Code:    CodeSmartCodeVersion,
			Message: fmt.Sprintf("version segment must use lowercase v (.v%s, not .V%s)", v, v),
		}
	default:
		return &dto.GuardrailIssue{
			Field:   field,
			Code:    CodeSmartCodeInvalid,
			Message: fmt.Sprintf("smart code %q does not match %s", code, smartcode.Pattern),
		}
	}
}

// ProposeFixes returns candidate corrections for the given issues. The
// caller must explicitly apply a fix and resubmit; every committed write
// stays attributable to a caller decision, not a heuristic.
func (s *guardrailService) ProposeFixes(ctx context.Context, payload dto.GuardrailPayload, issues []dto.GuardrailIssue) []dto.ProposedFix {
	var fixes []dto.ProposedFix
	for _, issue := range issues {
		switch issue.Code {
		case CodeSmartCodeVersion:
			if issue.Field == "smart_code" {
				fixes = append(fixes, dto.ProposedFix{
					Field:          issue.Field,
					SuggestedValue: smartcode.Normalize(payload.SmartCode),
					Confidence:     0.95,
				})
			}
		case CodeLedgerUnbalanced:
			delta := ledger.SumLines(payload.Lines)
			fixes = append(fixes, dto.ProposedFix{
				Field:          "lines",
				SuggestedValue: fmt.Sprintf("append balancing line of %s", delta.Neg().String()),
				Confidence:     0.6,
			})
		case CodeRequiredFieldMissing:
			if issue.Field == "transaction_date" {
				fixes = append(fixes, dto.ProposedFix{
					Field:          issue.Field,
					SuggestedValue: time.Now().UTC().Format(time.RFC3339),
					Confidence:     0.5,
				})
			}
		}
	}
	return fixes
}
