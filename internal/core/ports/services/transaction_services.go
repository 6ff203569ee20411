package services

import (
	"context"

	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
)

// TransactionSvcFacade defines operations over the universal transaction
// ledger: atomic header-plus-lines writes, the status state machine, balance
// validation and duplicate scoring.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, requesterID string) (*dto.CreateTransactionResponse, error)
	GetTransactionByID(ctx context.Context, organizationID string, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, organizationID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	AppendLines(ctx context.Context, organizationID string, transactionID string, req dto.AppendLinesRequest, requesterID string) (*domain.Transaction, error)
	PostTransaction(ctx context.Context, organizationID string, transactionID string, requesterID string) (*domain.Transaction, error)
	CancelTransaction(ctx context.Context, organizationID string, transactionID string, reason string, requesterID string) (*domain.Transaction, error)
	ReverseTransaction(ctx context.Context, organizationID string, transactionID string, requesterID string) (*domain.Transaction, error)
	PurgeTransaction(ctx context.Context, organizationID string, transactionID string, requesterID string) error
	CheckDuplicate(ctx context.Context, organizationID string, req dto.CheckDuplicateRequest) (*dto.CheckDuplicateResponse, error)
}
