package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/dedupe"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/ledger"
)

// CreateTransactionLineRequest defines one line of a new transaction.
type CreateTransactionLineRequest struct {
	LineNumber   int             `json:"line_number" binding:"required,min=1"`
	LineType     string          `json:"line_type" binding:"required"`
	LineEntityID *string         `json:"line_entity_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitAmount   decimal.Decimal `json:"unit_amount"`
	LineAmount   decimal.Decimal `json:"line_amount"`
	SmartCode    string          `json:"smart_code" binding:"required"`
	LineData     json.RawMessage `json:"line_data"`
}

// CreateTransactionRequest defines a new transaction header plus its lines.
// Status may be "draft" or "posted" (default); a financial posting must
// balance to be accepted as posted, while a draft may be stored unbalanced.
type CreateTransactionRequest struct {
	TransactionType string                         `json:"transaction_type" binding:"required"`
	SmartCode       string                         `json:"smart_code" binding:"required"`
	TransactionCode string                         `json:"transaction_code"`
	TransactionDate time.Time                      `json:"transaction_date" binding:"required"`
	SourceEntityID  *string                        `json:"source_entity_id"`
	TargetEntityID  *string                        `json:"target_entity_id"`
	ReferenceNumber string                         `json:"reference_number"`
	Metadata        json.RawMessage                `json:"metadata"`
	Status          string                         `json:"status" binding:"omitempty,oneof=draft posted"`
	Lines           []CreateTransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreateTransactionResponse reports the stored header and balance verdict.
type CreateTransactionResponse struct {
	TransactionID   string               `json:"id"`
	TransactionCode string               `json:"transaction_code"`
	Status          string               `json:"status"`
	BalanceStatus   ledger.BalanceStatus `json:"balance_status"`
	Delta           *decimal.Decimal     `json:"delta,omitempty"`
	Warnings        []GuardrailIssue     `json:"warnings,omitempty"`
}

// TransactionLineResponse defines the data returned for one line.
type TransactionLineResponse struct {
	LineID       string          `json:"id"`
	LineNumber   int             `json:"line_number"`
	LineType     string          `json:"line_type"`
	LineEntityID *string         `json:"line_entity_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitAmount   decimal.Decimal `json:"unit_amount"`
	LineAmount   decimal.Decimal `json:"line_amount"`
	SmartCode    string          `json:"smart_code"`
	LineData     json.RawMessage `json:"line_data,omitempty"`
}

// TransactionResponse defines the data returned for a transaction header.
type TransactionResponse struct {
	TransactionID   string                    `json:"id"`
	OrganizationID  string                    `json:"organization_id"`
	TransactionType string                    `json:"transaction_type"`
	TransactionCode string                    `json:"transaction_code"`
	SmartCode       string                    `json:"smart_code"`
	TransactionDate time.Time                 `json:"transaction_date"`
	SourceEntityID  *string                   `json:"source_entity_id,omitempty"`
	TargetEntityID  *string                   `json:"target_entity_id,omitempty"`
	TotalAmount     decimal.Decimal           `json:"total_amount"`
	Status          domain.TransactionStatus  `json:"status"`
	ReferenceNumber string                    `json:"reference_number,omitempty"`
	Metadata        json.RawMessage           `json:"metadata,omitempty"`
	Lines           []TransactionLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// ListTransactionsParams defines query parameters for transaction listing.
type ListTransactionsParams struct {
	TransactionType string  `form:"transaction_type"`
	Status          string  `form:"status"`
	SmartCode       string  `form:"smart_code"`
	Limit           int     `form:"limit,default=20"`
	NextToken       *string `form:"next_token"`
}

// ListTransactionsResponse wraps a page of transaction headers.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"next_token,omitempty"`
}

// AppendLinesRequest defines lines to append to a draft transaction.
type AppendLinesRequest struct {
	Lines []CreateTransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CheckDuplicateRequest describes a candidate transaction for duplicate scoring.
type CheckDuplicateRequest struct {
	TransactionType string          `json:"transaction_type" binding:"required"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	SourceEntityID  *string         `json:"source_entity_id"`
	TargetEntityID  *string         `json:"target_entity_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ReferenceNumber string          `json:"reference_number"`
}

// CheckDuplicateResponse reports the strongest match and verdict.
type CheckDuplicateResponse struct {
	Confidence  float64          `json:"confidence"`
	IsDuplicate bool             `json:"is_duplicate"`
	NeedsReview bool             `json:"needs_review"`
	Evidence    *dedupe.Evidence `json:"evidence,omitempty"`
}

// ToTransactionLineResponse converts a domain line to its DTO.
func ToTransactionLineResponse(l *domain.TransactionLine) TransactionLineResponse {
	return TransactionLineResponse{
		LineID:       l.LineID,
		LineNumber:   l.LineNumber,
		LineType:     l.LineType,
		LineEntityID: l.LineEntityID,
		Quantity:     l.Quantity,
		UnitAmount:   l.UnitAmount,
		LineAmount:   l.LineAmount,
		SmartCode:    l.SmartCode,
		LineData:     l.LineData,
	}
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	lines := make([]TransactionLineResponse, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = ToTransactionLineResponse(&l)
	}
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		OrganizationID:  t.OrganizationID,
		TransactionType: t.TransactionType,
		TransactionCode: t.TransactionCode,
		SmartCode:       t.SmartCode,
		TransactionDate: t.TransactionDate,
		SourceEntityID:  t.SourceEntityID,
		TargetEntityID:  t.TargetEntityID,
		TotalAmount:     t.TotalAmount,
		Status:          t.Status,
		ReferenceNumber: t.ReferenceNumber,
		Metadata:        t.Metadata,
		Lines:           lines,
		CreatedAt:       t.CreatedAt,
	}
}

// ToListTransactionsResponse converts a page of headers.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ToTransactionResponse(&t)
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}
