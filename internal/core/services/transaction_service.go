package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portsrepo "github.com/bizcoreapp/bizcore_backend/internal/core/ports/repositories"
	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
	"github.com/bizcoreapp/bizcore_backend/internal/smartcode"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/dedupe"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/ledger"
)

var (
	ErrDuplicateLineNumber = errors.New("duplicate line number within transaction")
	ErrNoLines             = errors.New("transaction must carry at least one line")
)

// CodeDuplicateSuspected tags duplicate warnings attached to an otherwise
// successful create response.
const CodeDuplicateSuspected = "DUPLICATE_SUSPECTED"

// dedupeCandidateLimit caps how many recent headers are scored per write.
const dedupeCandidateLimit = 50

// transactionService provides the universal transaction ledger.
type transactionService struct {
	txnRepo      portsrepo.TransactionRepositoryFacade
	guardrailSvc portssvc.GuardrailSvcFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, guardrailSvc portssvc.GuardrailSvcFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:      txnRepo,
		guardrailSvc: guardrailSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// buildLines converts line requests into domain lines, normalizing and
// validating every smart code and rejecting duplicate line numbers. Existing
// numbers (from lines already stored) also count as taken; gaps are fine.
func buildLines(transactionID string, reqs []dto.CreateTransactionLineRequest, taken map[int]bool, requesterID string, now time.Time) ([]domain.TransactionLine, error) {
	if taken == nil {
		taken = make(map[int]bool, len(reqs))
	}
	lines := make([]domain.TransactionLine, len(reqs))
	for i, lr := range reqs {
		if taken[lr.LineNumber] {
			return nil, fmt.Errorf("%w: line %d", ErrDuplicateLineNumber, lr.LineNumber)
		}
		taken[lr.LineNumber] = true

		code := smartcode.Normalize(lr.SmartCode)
		if err := smartcode.Validate(code); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, lr.LineNumber, err.Error())
		}

		lines[i] = domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: transactionID,
			LineNumber:    lr.LineNumber,
			LineType:      lr.LineType,
			LineEntityID:  lr.LineEntityID,
			Quantity:      lr.Quantity,
			UnitAmount:    lr.UnitAmount,
			LineAmount:    lr.LineAmount,
			SmartCode:     code,
			LineData:      lr.LineData,
			AuditFields:   domain.NewAuditFields(requesterID, now),
		}
	}
	return lines, nil
}

// totalAmount derives the stored header total from the lines: the gross
// debit side for financial transactions, the plain sum otherwise.
func totalAmount(txn domain.Transaction, lines []domain.TransactionLine) decimal.Decimal {
	if txn.IsFinancial() {
		return ledger.GrossAmount(lines)
	}
	return ledger.SumLines(lines)
}

// mergeMetadata sets one key in the header's opaque metadata blob, keeping
// whatever else the caller stored there.
func mergeMetadata(existing json.RawMessage, key string, value any) (json.RawMessage, error) {
	meta := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode transaction metadata: %w", err)
		}
	}
	meta[key] = value
	merged, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction metadata: %w", err)
	}
	return merged, nil
}

// CreateTransaction persists a header and its lines atomically. A financial
// transaction requested as posted must balance; a draft may be stored
// unbalanced for later correction. Duplicate suspects above the blocking
// threshold are rejected with the supporting evidence.
func (s *transactionService) CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, requesterID string) (*dto.CreateTransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	code := smartcode.Normalize(req.SmartCode)

	status := domain.TxnStatusPosted
	if req.Status == string(domain.TxnStatusDraft) {
		status = domain.TxnStatusDraft
	}

	lines, err := buildLines(transactionID, req.Lines, nil, requesterID, now)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	txn := domain.Transaction{
		TransactionID:   transactionID,
		OrganizationID:  organizationID,
		TransactionType: req.TransactionType,
		TransactionCode: req.TransactionCode,
		SmartCode:       code,
		TransactionDate: req.TransactionDate,
		SourceEntityID:  req.SourceEntityID,
		TargetEntityID:  req.TargetEntityID,
		Status:          status,
		ReferenceNumber: req.ReferenceNumber,
		Metadata:        req.Metadata,
		AuditFields:     domain.NewAuditFields(requesterID, now),
	}
	if txn.TransactionCode == "" {
		txn.TransactionCode = fmt.Sprintf("TXN-%s-%.8s", req.TransactionDate.Format("20060102"), transactionID)
	}

	postingDate := req.TransactionDate
	result := s.guardrailSvc.Validate(ctx, organizationID, dto.GuardrailPayload{
		Operation:      "transaction.create",
		OrganizationID: organizationID,
		SmartCode:      code,
		Fields: map[string]any{
			"transaction_type": req.TransactionType,
			"smart_code":       code,
			"transaction_date": req.TransactionDate.Format(time.RFC3339),
		},
		Transaction: &txn,
		Lines:       lines,
		PostingDate: &postingDate,
	})

	balanceStatus, delta := ledger.ValidateBalance(txn, lines)

	// A draft may be stored unbalanced; every other guardrail error blocks.
	if !result.Valid {
		blocking := result.Errors
		if status == domain.TxnStatusDraft {
			blocking = nil
			for _, issue := range result.Errors {
				if issue.Code != CodeLedgerUnbalanced {
					blocking = append(blocking, issue)
				}
			}
		}
		if len(blocking) > 0 {
			if blocking[0].Code == CodeLedgerUnbalanced {
				return nil, fmt.Errorf("%w: delta %s", apperrors.ErrUnbalancedLedger, delta.String())
			}
			return nil, guardrailResultError(dto.GuardrailResult{Valid: false, Errors: blocking})
		}
	}

	warnings := append([]dto.GuardrailIssue{}, result.Warnings...)

	// The header total must be derived before duplicate scoring so the
	// amount signal compares real values.
	txn.TotalAmount = totalAmount(txn, lines)

	// Duplicate detection: a heuristic, blocking only above the threshold.
	evidence, err := s.scoreDuplicates(ctx, organizationID, txn)
	if err != nil {
		logger.Warn("Duplicate scoring unavailable", slog.String("error", err.Error()))
	} else if evidence.IsDuplicate() {
		logger.Warn("Transaction blocked as suspected duplicate",
			slog.String("matched_transaction_id", evidence.TransactionID),
			slog.Float64("confidence", evidence.Confidence),
		)
		return nil, fmt.Errorf("%w: matches %s with confidence %.2f", apperrors.ErrDuplicateSuspected, evidence.TransactionID, evidence.Confidence)
	} else if evidence.NeedsReview() {
		warnings = append(warnings, dto.GuardrailIssue{
			Field:   "reference_number",
			Code:    CodeDuplicateSuspected,
			Message: fmt.Sprintf("possible duplicate of %s (confidence %.2f), review before relying on this posting", evidence.TransactionID, evidence.Confidence),
		})
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, lines); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_type", txn.TransactionType),
		slog.String("status", string(txn.Status)),
		slog.String("balance_status", string(balanceStatus)),
	)

	resp := &dto.CreateTransactionResponse{
		TransactionID:   txn.TransactionID,
		TransactionCode: txn.TransactionCode,
		Status:          string(txn.Status),
		BalanceStatus:   balanceStatus,
		Warnings:        warnings,
	}
	if balanceStatus == ledger.Unbalanced {
		resp.Delta = &delta
	}
	return resp, nil
}

func (s *transactionService) scoreDuplicates(ctx context.Context, organizationID string, candidate domain.Transaction) (dedupe.Evidence, error) {
	since := candidate.TransactionDate.AddDate(0, 0, -7)
	recent, err := s.txnRepo.ListRecentTransactions(ctx, organizationID, since, dedupeCandidateLimit)
	if err != nil {
		return dedupe.Evidence{}, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return dedupe.Score(candidate, recent), nil
}

// getScopedTransaction fetches a header and enforces the tenant boundary.
func (s *transactionService) getScopedTransaction(ctx context.Context, organizationID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.OrganizationID != organizationID {
		middleware.GetLoggerFromCtx(ctx).Warn("Transaction requested from wrong organization",
			slog.String("transaction_id", transactionID),
			slog.String("transaction_org", txn.OrganizationID),
			slog.String("request_org", organizationID),
		)
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, organizationID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.getScopedTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	lines, err := s.txnRepo.FindLinesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find lines for transaction %s: %w", transactionID, err)
	}
	txn.Lines = lines
	return txn, nil
}

// ListTransactions is tenant-scoped and fails closed on a missing
// organization identifier.
func (s *transactionService) ListTransactions(ctx context.Context, organizationID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if organizationID == "" {
		return &dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	filters := portsrepo.TransactionListFilters{
		TransactionType: params.TransactionType,
		Status:          domain.TransactionStatus(params.Status),
		SmartCode:       params.SmartCode,
	}

	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, organizationID, filters, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	resp := dto.ToListTransactionsResponse(txns, nextToken)
	return &resp, nil
}

// AppendLines adds lines to a draft transaction. Posted, cancelled and
// reversed headers never grow new lines through this path.
func (s *transactionService) AppendLines(ctx context.Context, organizationID string, transactionID string, req dto.AppendLinesRequest, requesterID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.getScopedTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.TxnStatusDraft {
		return nil, fmt.Errorf("%w: cannot append lines to a %s transaction", apperrors.ErrInvalidStateTransition, txn.Status)
	}

	existing, err := s.txnRepo.FindLinesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find lines for transaction %s: %w", transactionID, err)
	}
	taken := make(map[int]bool, len(existing))
	for _, line := range existing {
		taken[line.LineNumber] = true
	}

	now := time.Now().UTC()
	newLines, err := buildLines(transactionID, req.Lines, taken, requesterID, now)
	if err != nil {
		return nil, err
	}

	allLines := append(append([]domain.TransactionLine{}, existing...), newLines...)
	newTotal := totalAmount(*txn, allLines)

	if err := s.txnRepo.AppendLines(ctx, transactionID, newLines, newTotal, requesterID, now); err != nil {
		logger.Error("Failed to append lines", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to append lines: %w", err)
	}

	logger.Info("Lines appended", slog.String("transaction_id", transactionID), slog.Int("line_count", len(newLines)))
	txn.Lines = allLines
	txn.TotalAmount = newTotal
	txn.Touch(requesterID, now)
	return txn, nil
}

// PostTransaction moves a draft to posted, re-deriving the balance from the
// stored lines; the verdict is computed, never trusted from a stored flag.
func (s *transactionService) PostTransaction(ctx context.Context, organizationID string, transactionID string, requesterID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.getScopedTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	next, err := txn.Status.Transition(domain.TxnStatusPosted)
	if err != nil {
		return nil, fmt.Errorf("%w: %s -> posted", err, txn.Status)
	}

	lines, err := s.txnRepo.FindLinesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find lines for transaction %s: %w", transactionID, err)
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	if status, delta := ledger.ValidateBalance(*txn, lines); status == ledger.Unbalanced {
		return nil, fmt.Errorf("%w: delta %s", apperrors.ErrUnbalancedLedger, delta.String())
	}

	now := time.Now().UTC()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, next, nil, requesterID, now); err != nil {
		logger.Error("Failed to post transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to post transaction: %w", err)
	}

	logger.Info("Transaction posted", slog.String("transaction_id", transactionID))
	txn.Status = next
	txn.Lines = lines
	txn.Touch(requesterID, now)
	return txn, nil
}

// CancelTransaction soft-deletes a transaction: the row and its lines are
// preserved and a cancellation marker is appended to the metadata.
func (s *transactionService) CancelTransaction(ctx context.Context, organizationID string, transactionID string, reason string, requesterID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.getScopedTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	next, err := txn.Status.Transition(domain.TxnStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("%w: %s -> cancelled", err, txn.Status)
	}

	now := time.Now().UTC()
	metadata, err := mergeMetadata(txn.Metadata, "cancellation", map[string]any{
		"reason":       reason,
		"cancelled_by": requesterID,
		"cancelled_at": now.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, next, metadata, requesterID, now); err != nil {
		logger.Error("Failed to cancel transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}

	logger.Info("Transaction cancelled", slog.String("transaction_id", transactionID))
	txn.Status = next
	txn.Metadata = metadata
	txn.Touch(requesterID, now)
	return txn, nil
}

// ReverseTransaction creates a posted reversing transaction with negated
// line amounts and marks the original as reversed.
func (s *transactionService) ReverseTransaction(ctx context.Context, organizationID string, transactionID string, requesterID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.getScopedTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.TxnStatusPosted {
		return nil, fmt.Errorf("%w: only posted transactions can be reversed, status is %s", apperrors.ErrInvalidStateTransition, original.Status)
	}

	originalLines, err := s.txnRepo.FindLinesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find lines for transaction %s: %w", transactionID, err)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	reversingLines := make([]domain.TransactionLine, len(originalLines))
	for i, line := range originalLines {
		reversingLines[i] = domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: reversingID,
			LineNumber:    line.LineNumber,
			LineType:      line.LineType,
			LineEntityID:  line.LineEntityID,
			Quantity:      line.Quantity,
			UnitAmount:    line.UnitAmount,
			LineAmount:    line.LineAmount.Neg(),
			SmartCode:     line.SmartCode,
			LineData:      line.LineData,
			AuditFields:   domain.NewAuditFields(requesterID, now),
		}
	}

	metadata, err := mergeMetadata(nil, "reversal_of", original.TransactionID)
	if err != nil {
		return nil, err
	}

	reversing := domain.Transaction{
		TransactionID:   reversingID,
		OrganizationID:  organizationID,
		TransactionType: original.TransactionType,
		TransactionCode: fmt.Sprintf("REV-%s", original.TransactionCode),
		SmartCode:       original.SmartCode,
		TransactionDate: original.TransactionDate,
		SourceEntityID:  original.SourceEntityID,
		TargetEntityID:  original.TargetEntityID,
		Status:          domain.TxnStatusPosted,
		ReferenceNumber: original.ReferenceNumber,
		Metadata:        metadata,
		AuditFields:     domain.NewAuditFields(requesterID, now),
	}
	reversing.TotalAmount = totalAmount(reversing, reversingLines)

	if err := s.txnRepo.SaveTransaction(ctx, reversing, reversingLines); err != nil {
		logger.Error("Failed to save reversing transaction", slog.String("error", err.Error()), slog.String("original_transaction_id", transactionID))
		return nil, fmt.Errorf("failed to save reversing transaction: %w", err)
	}

	originalMeta, err := mergeMetadata(original.Metadata, "reversed_by", reversingID)
	if err != nil {
		return nil, err
	}
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, domain.TxnStatusReversed, originalMeta, requesterID, now); err != nil {
		logger.Error("Failed to mark original transaction reversed",
			slog.String("error", err.Error()),
			slog.String("original_transaction_id", transactionID),
			slog.String("reversing_transaction_id", reversingID),
		)
		return nil, fmt.Errorf("failed to mark transaction reversed: %w", err)
	}

	logger.Info("Transaction reversed",
		slog.String("original_transaction_id", transactionID),
		slog.String("reversing_transaction_id", reversingID),
	)
	reversing.Lines = reversingLines
	return &reversing, nil
}

// PurgeTransaction physically removes the header and its lines. Privileged
// cleanup path, distinct from cancellation.
func (s *transactionService) PurgeTransaction(ctx context.Context, organizationID string, transactionID string, requesterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.getScopedTransaction(ctx, organizationID, transactionID); err != nil {
		return err
	}

	if err := s.txnRepo.HardDeleteTransaction(ctx, transactionID); err != nil {
		logger.Error("Failed to purge transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to purge transaction: %w", err)
	}

	logger.Info("Transaction purged", slog.String("transaction_id", transactionID), slog.String("requester_id", requesterID))
	return nil
}

// CheckDuplicate scores a candidate against recent transactions without
// persisting anything.
func (s *transactionService) CheckDuplicate(ctx context.Context, organizationID string, req dto.CheckDuplicateRequest) (*dto.CheckDuplicateResponse, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("%w: organization_id is required", apperrors.ErrTenantMismatch)
	}

	candidate := domain.Transaction{
		TransactionType: req.TransactionType,
		TransactionDate: req.TransactionDate,
		SourceEntityID:  req.SourceEntityID,
		TargetEntityID:  req.TargetEntityID,
		TotalAmount:     req.TotalAmount,
		ReferenceNumber: req.ReferenceNumber,
	}
	evidence, err := s.scoreDuplicates(ctx, organizationID, candidate)
	if err != nil {
		return nil, err
	}

	resp := &dto.CheckDuplicateResponse{
		Confidence:  evidence.Confidence,
		IsDuplicate: evidence.IsDuplicate(),
		NeedsReview: evidence.NeedsReview(),
	}
	if evidence.TransactionID != "" {
		resp.Evidence = &evidence
	}
	return resp, nil
}
