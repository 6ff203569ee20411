package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
)

// TransactionStatus follows a small state machine:
// draft -> posted -> (cancelled | reversed).
// posted is terminal for the normal flow except for the two explicit exits;
// cancelled and reversed accept no further transitions.
type TransactionStatus string

const (
	TxnStatusDraft     TransactionStatus = "draft"
	TxnStatusPosted    TransactionStatus = "posted"
	TxnStatusCancelled TransactionStatus = "cancelled"
	TxnStatusReversed  TransactionStatus = "reversed"
)

var txnTransitions = map[TransactionStatus][]TransactionStatus{
	TxnStatusDraft:  {TxnStatusPosted, TxnStatusCancelled},
	TxnStatusPosted: {TxnStatusCancelled, TxnStatusReversed},
}

// CanTransitionTo reports whether the status machine permits the move.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range txnTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns ErrInvalidStateTransition when the move is not allowed.
func (s TransactionStatus) Transition(next TransactionStatus) (TransactionStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, apperrors.ErrInvalidStateTransition
	}
	return next, nil
}

// ledgerAffectingTypes registers which transaction types carry the zero-sum
// balance invariant. Everything else (message sends, generic events) keeps
// line ordering and smart codes but skips the balance check.
var ledgerAffectingTypes = map[string]bool{
	"SALE":       true,
	"PURCHASE":   true,
	"PAYMENT":    true,
	"REFUND":     true,
	"JOURNAL":    true,
	"ADJUSTMENT": true,
}

// IsFinancialType reports whether a transaction type is ledger-affecting.
func IsFinancialType(transactionType string) bool {
	return ledgerAffectingTypes[transactionType]
}

// Transaction is the universal business-event header. A sale, a journal
// entry, a stock movement and a message send all use the same shape.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (UUID)
	OrganizationID  string            `json:"organizationID"`
	TransactionType string            `json:"transactionType"` // e.g. "SALE", "JOURNAL"
	TransactionCode string            `json:"transactionCode"` // Human-facing code (e.g. "TXN-20260830-...")
	SmartCode       string            `json:"smartCode"`
	TransactionDate time.Time         `json:"transactionDate"`
	SourceEntityID  *string           `json:"sourceEntityID"` // Nullable counterpart references
	TargetEntityID  *string           `json:"targetEntityID"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Status          TransactionStatus `json:"status"`
	ReferenceNumber string            `json:"referenceNumber"` // External document number, feeds duplicate scoring
	Metadata        json.RawMessage   `json:"metadata"`        // Opaque blob; cancellation markers live here
	Lines           []TransactionLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// IsFinancial reports whether the balance invariant applies to this header.
func (t Transaction) IsFinancial() bool {
	return IsFinancialType(t.TransactionType)
}

// TransactionLine is one ordered, typed line item of a transaction. Signed
// amounts: debit-style lines are positive, payment/credit lines negative, so
// a balanced financial posting sums to zero.
type TransactionLine struct {
	LineID        string          `json:"lineID"` // Primary Key (UUID)
	TransactionID string          `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"` // Unique within the transaction; gaps permitted
	LineType      string          `json:"lineType"`   // e.g. "service", "tax", "payment"
	LineEntityID  *string         `json:"lineEntityID"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitAmount    decimal.Decimal `json:"unitAmount"`
	LineAmount    decimal.Decimal `json:"lineAmount"` // Signed
	SmartCode     string          `json:"smartCode"`
	LineData      json.RawMessage `json:"lineData"` // Opaque blob
	AuditFields
}
