package services

import (
	"context"

	"github.com/bizcoreapp/bizcore_backend/internal/dto"
)

// GuardrailSvcFacade is the cross-cutting validation engine run before any
// write. It only reports; it never mutates payloads or applies fixes.
type GuardrailSvcFacade interface {
	Validate(ctx context.Context, organizationID string, payload dto.GuardrailPayload) dto.GuardrailResult
	ProposeFixes(ctx context.Context, payload dto.GuardrailPayload, issues []dto.GuardrailIssue) []dto.ProposedFix
}
