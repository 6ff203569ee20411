package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
)

// TransactionListFilters narrows tenant-scoped transaction listings.
type TransactionListFilters struct {
	TransactionType string
	Status          domain.TransactionStatus
	SmartCode       string
}

// TransactionRepositoryFacade defines persistence operations for transaction
// headers and their lines. SaveTransaction and AppendLines are atomic: a
// header-plus-lines write either fully succeeds or fully fails, so partial
// line sets are never visible to concurrent readers. AppendLines serializes
// concurrent writers by locking the parent header row.
type TransactionRepositoryFacade interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction, lines []domain.TransactionLine) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	FindLinesByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLine, error)
	ListTransactions(ctx context.Context, organizationID string, filters TransactionListFilters, limit int, nextToken *string) ([]domain.Transaction, *string, error)
	// ListRecentTransactions returns headers dated on or after since, newest
	// first, for duplicate scoring.
	ListRecentTransactions(ctx context.Context, organizationID string, since time.Time, limit int) ([]domain.Transaction, error)
	// AppendLines inserts lines under the locked header and refreshes the
	// header total in the same storage transaction. Returns
	// apperrors.ErrDuplicate when a line number already exists.
	AppendLines(ctx context.Context, transactionID string, lines []domain.TransactionLine, newTotalAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error
	// UpdateTransactionStatus moves the header status; a non-nil metadata
	// replaces the stored metadata blob (cancellation markers live there).
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, metadata json.RawMessage, updatedBy string, updatedAt time.Time) error
	// HardDeleteTransaction removes the header and its lines. Privileged
	// cleanup path only, distinct from cancellation.
	HardDeleteTransaction(ctx context.Context, transactionID string) error
}
