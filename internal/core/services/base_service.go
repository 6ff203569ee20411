package services

import (
	"fmt"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
)

// guardrailResultError maps a failed guardrail result to the error taxonomy
// so callers can match with errors.Is. The first error decides the sentinel;
// every issue stays available in the message for correction and resubmit.
func guardrailResultError(result dto.GuardrailResult) error {
	if result.Valid || len(result.Errors) == 0 {
		return nil
	}
	first := result.Errors[0]
	var sentinel error
	switch first.Code {
	case CodeTenantMissing, CodeTenantMismatch:
		sentinel = apperrors.ErrTenantMismatch
	case CodeLedgerUnbalanced:
		sentinel = apperrors.ErrUnbalancedLedger
	default:
		sentinel = apperrors.ErrValidation
	}
	return fmt.Errorf("%w: %s (%s)", sentinel, first.Message, first.Code)
}
