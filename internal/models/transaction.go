package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the state of a transaction header.
type TransactionStatus string

const (
	Draft     TransactionStatus = "draft"
	Posted    TransactionStatus = "posted"
	Cancelled TransactionStatus = "cancelled"
	Reversed  TransactionStatus = "reversed"
)

// Transaction represents one business-event header row.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (UUID)
	OrganizationID  string            `json:"organizationID"`
	TransactionType string            `json:"transactionType"`
	TransactionCode string            `json:"transactionCode"`
	SmartCode       string            `json:"smartCode"`
	TransactionDate time.Time         `json:"transactionDate"`
	SourceEntityID  *string           `json:"sourceEntityID"`
	TargetEntityID  *string           `json:"targetEntityID"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Status          TransactionStatus `json:"status"`
	ReferenceNumber string            `json:"referenceNumber"`
	Metadata        json.RawMessage   `json:"metadata"`
	AuditFields
}

// TransactionLine represents one ordered line row under a header.
type TransactionLine struct {
	LineID        string          `json:"lineID"` // Primary Key (UUID)
	TransactionID string          `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"` // Unique within the transaction
	LineType      string          `json:"lineType"`
	LineEntityID  *string         `json:"lineEntityID"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitAmount    decimal.Decimal `json:"unitAmount"`
	LineAmount    decimal.Decimal `json:"lineAmount"` // Signed
	SmartCode     string          `json:"smartCode"`
	LineData      json.RawMessage `json:"lineData"`
	AuditFields
}
