package dto

import (
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// GuardrailPayload is the internal shape services hand to the guardrail
// engine before any write. Fields carries the operation payload for
// required-field checks; Transaction/Lines are set for ledger operations.
type GuardrailPayload struct {
	Operation      string
	OrganizationID string
	SmartCode      string
	Fields         map[string]any
	Transaction    *domain.Transaction
	Lines          []domain.TransactionLine
	PostingDate    *time.Time
}

// GuardrailResult is the outcome of running the ordered checks. Warnings do
// not block persistence; any error does.
type GuardrailResult struct {
	Valid    bool
	Errors   []GuardrailIssue
	Warnings []GuardrailIssue
}

// GuardrailIssue is one validation finding, with enough detail for the caller
// to correct and resubmit.
type GuardrailIssue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProposedFix is a candidate correction the caller must explicitly apply; the
// engine never applies fixes itself.
type ProposedFix struct {
	Field          string  `json:"field"`
	SuggestedValue string  `json:"suggested_value"`
	Confidence     float64 `json:"confidence"`
}

// GuardrailValidateRequest is a dry-run validation of an operation payload.
type GuardrailValidateRequest struct {
	Operation       string                         `json:"operation" binding:"required"`
	OrganizationID  string                         `json:"organization_id"`
	SmartCode       string                         `json:"smart_code"`
	Fields          map[string]any                 `json:"fields"`
	PostingDate     *string                        `json:"posting_date"` // RFC3339
	TransactionType string                         `json:"transaction_type"`
	Lines           []CreateTransactionLineRequest `json:"lines"`
}

// GuardrailValidateResponse reports the outcome without persisting anything.
type GuardrailValidateResponse struct {
	Valid         bool             `json:"valid"`
	Errors        []GuardrailIssue `json:"errors"`
	Warnings      []GuardrailIssue `json:"warnings"`
	ProposedFixes []ProposedFix    `json:"proposed_fixes,omitempty"`
}
