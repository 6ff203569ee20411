package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portsrepo "github.com/bizcoreapp/bizcore_backend/internal/core/ports/repositories"
	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/core/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/ledger"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, lines []domain.TransactionLine) error {
	args := m.Called(ctx, txn, lines)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindLinesByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLine, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLine), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, organizationID string, filters portsrepo.TransactionListFilters, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, organizationID, filters, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) ListRecentTransactions(ctx context.Context, organizationID string, since time.Time, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, organizationID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) AppendLines(ctx context.Context, transactionID string, lines []domain.TransactionLine, newTotalAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, lines, newTotalAmount, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, metadata json.RawMessage, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, status, metadata, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) HardDeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo *MockTransactionRepository
	service     portssvc.TransactionSvcFacade
	orgID       string
	requesterID string
	txnDate     time.Time
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, services.NewGuardrailService())

	suite.orgID = uuid.NewString()
	suite.requesterID = uuid.NewString()
	suite.txnDate = time.Now().UTC().Add(-24 * time.Hour)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func lineReq(number int, lineType string, amount float64, code string) dto.CreateTransactionLineRequest {
	return dto.CreateTransactionLineRequest{
		LineNumber: number,
		LineType:   lineType,
		LineAmount: decimal.NewFromFloat(amount),
		SmartCode:  code,
	}
}

func (suite *TransactionServiceTestSuite) balancedSaleRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		TransactionType: "SALE",
		SmartCode:       "HERA.REST.POS.TXN.SALE.v1",
		TransactionDate: suite.txnDate,
		ReferenceNumber: "INV-1001",
		Lines: []dto.CreateTransactionLineRequest{
			lineReq(1, "service", 150.00, "HERA.REST.POS.LINE.FOOD.v1"),
			lineReq(2, "tax", 7.50, "HERA.REST.POS.LINE.TAX.v1"),
			lineReq(3, "payment", -157.50, "HERA.REST.POS.LINE.PAY.v1"),
		},
	}
}

func (suite *TransactionServiceTestSuite) expectNoRecentMatches() {
	suite.mockTxnRepo.On("ListRecentTransactions", mock.Anything, suite.orgID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{}, nil).Once()
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_BalancedSalePosts() {
	suite.expectNoRecentMatches()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.OrganizationID == suite.orgID &&
			txn.Status == domain.TxnStatusPosted &&
			txn.TotalAmount.Equal(decimal.NewFromFloat(157.50))
	}), mock.MatchedBy(func(lines []domain.TransactionLine) bool {
		return len(lines) == 3
	})).Return(nil).Once()

	resp, err := suite.service.CreateTransaction(context.Background(), suite.orgID, suite.balancedSaleRequest(), suite.requesterID)

	suite.Require().NoError(err)
	suite.Equal("posted", resp.Status)
	suite.Equal(ledger.Balanced, resp.BalanceStatus)
	suite.Nil(resp.Delta)
	suite.NotEmpty(resp.TransactionCode)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnbalancedPostingRejected() {
	req := suite.balancedSaleRequest()
	req.TransactionType = "JOURNAL"
	req.SmartCode = "HERA.FIN.GL.TXN.JE.v1"
	req.Lines = []dto.CreateTransactionLineRequest{
		lineReq(1, "debit", 100.00, "HERA.FIN.GL.LINE.DEBIT.v1"),
	}

	_, err := suite.service.CreateTransaction(context.Background(), suite.orgID, req, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedLedger)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnbalancedDraftStored() {
	req := suite.balancedSaleRequest()
	req.TransactionType = "JOURNAL"
	req.SmartCode = "HERA.FIN.GL.TXN.JE.v1"
	req.Status = "draft"
	req.Lines = []dto.CreateTransactionLineRequest{
		lineReq(1, "debit", 100.00, "HERA.FIN.GL.LINE.DEBIT.v1"),
	}

	suite.expectNoRecentMatches()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.TxnStatusDraft
	}), mock.Anything).Return(nil).Once()

	resp, err := suite.service.CreateTransaction(context.Background(), suite.orgID, req, suite.requesterID)

	suite.Require().NoError(err)
	suite.Equal("draft", resp.Status)
	suite.Equal(ledger.Unbalanced, resp.BalanceStatus)
	if suite.NotNil(resp.Delta) {
		suite.Equal("100", resp.Delta.String())
	}
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_DuplicateLineNumbers() {
	req := suite.balancedSaleRequest()
	req.Lines[1].LineNumber = 1

	_, err := suite.service.CreateTransaction(context.Background(), suite.orgID, req, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateLineNumber)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_StrongMatchBlocks() {
	sourceID := "customer-1"
	req := suite.balancedSaleRequest()
	req.SourceEntityID = &sourceID

	existingSource := sourceID
	existing := domain.Transaction{
		TransactionID:   uuid.NewString(),
		SourceEntityID:  &existingSource,
		TotalAmount:     decimal.NewFromFloat(157.50),
		ReferenceNumber: "INV-1001",
		TransactionDate: suite.txnDate.AddDate(0, 0, -2),
	}
	suite.mockTxnRepo.On("ListRecentTransactions", mock.Anything, suite.orgID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{existing}, nil).Once()

	_, err := suite.service.CreateTransaction(context.Background(), suite.orgID, req, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicateSuspected)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ReviewBandWarnsAndStores() {
	// Reference, amount and date match but the counterpart differs, which
	// lands between the review and block thresholds.
	otherSource := "customer-2"
	existing := domain.Transaction{
		TransactionID:   uuid.NewString(),
		SourceEntityID:  &otherSource,
		TotalAmount:     decimal.NewFromFloat(157.50),
		ReferenceNumber: "INV-1001",
		TransactionDate: suite.txnDate,
	}
	suite.mockTxnRepo.On("ListRecentTransactions", mock.Anything, suite.orgID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{existing}, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	sourceID := "customer-1"
	req := suite.balancedSaleRequest()
	req.SourceEntityID = &sourceID

	resp, err := suite.service.CreateTransaction(context.Background(), suite.orgID, req, suite.requesterID)

	suite.Require().NoError(err)
	if suite.Len(resp.Warnings, 1) {
		suite.Equal(services.CodeDuplicateSuspected, resp.Warnings[0].Code)
	}
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ScoringFailureDoesNotBlock() {
	suite.mockTxnRepo.On("ListRecentTransactions", mock.Anything, suite.orgID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInternal).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	resp, err := suite.service.CreateTransaction(context.Background(), suite.orgID, suite.balancedSaleRequest(), suite.requesterID)

	suite.Require().NoError(err)
	suite.Empty(resp.Warnings)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_WrongOrgReadsAsNotFound() {
	foreign := &domain.Transaction{
		TransactionID:  uuid.NewString(),
		OrganizationID: uuid.NewString(),
	}
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, foreign.TransactionID).Return(foreign, nil).Once()

	_, err := suite.service.GetTransactionByID(context.Background(), suite.orgID, foreign.TransactionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) draftJournal() *domain.Transaction {
	return &domain.Transaction{
		TransactionID:   uuid.NewString(),
		OrganizationID:  suite.orgID,
		TransactionType: "JOURNAL",
		TransactionCode: "TXN-20260310-abc",
		SmartCode:       "HERA.FIN.GL.TXN.JE.v1",
		TransactionDate: suite.txnDate,
		Status:          domain.TxnStatusDraft,
	}
}

func storedLine(txnID string, number int, amount float64) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:        uuid.NewString(),
		TransactionID: txnID,
		LineNumber:    number,
		LineType:      "gl",
		LineAmount:    decimal.NewFromFloat(amount),
		SmartCode:     "HERA.FIN.GL.LINE.ENTRY.v1",
	}
}

func (suite *TransactionServiceTestSuite) TestAppendLines_DraftOnly() {
	posted := suite.draftJournal()
	posted.Status = domain.TxnStatusPosted
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, posted.TransactionID).Return(posted, nil).Once()

	_, err := suite.service.AppendLines(context.Background(), suite.orgID, posted.TransactionID, dto.AppendLinesRequest{
		Lines: []dto.CreateTransactionLineRequest{lineReq(2, "gl", -100.00, "HERA.FIN.GL.LINE.ENTRY.v1")},
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (suite *TransactionServiceTestSuite) TestAppendLines_RejectsStoredLineNumber() {
	draft := suite.draftJournal()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, draft.TransactionID).Return(draft, nil).Once()
	suite.mockTxnRepo.On("FindLinesByTransactionID", mock.Anything, draft.TransactionID).
		Return([]domain.TransactionLine{storedLine(draft.TransactionID, 1, 100.00)}, nil).Once()

	_, err := suite.service.AppendLines(context.Background(), suite.orgID, draft.TransactionID, dto.AppendLinesRequest{
		Lines: []dto.CreateTransactionLineRequest{lineReq(1, "gl", -100.00, "HERA.FIN.GL.LINE.ENTRY.v1")},
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateLineNumber)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "AppendLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestAppendLines_RefreshesHeaderTotal() {
	draft := suite.draftJournal()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, draft.TransactionID).Return(draft, nil).Once()
	suite.mockTxnRepo.On("FindLinesByTransactionID", mock.Anything, draft.TransactionID).
		Return([]domain.TransactionLine{storedLine(draft.TransactionID, 1, 100.00)}, nil).Once()
	suite.mockTxnRepo.On("AppendLines", mock.Anything, draft.TransactionID,
		mock.MatchedBy(func(lines []domain.TransactionLine) bool { return len(lines) == 1 && lines[0].LineNumber == 2 }),
		mock.MatchedBy(func(total decimal.Decimal) bool { return total.Equal(decimal.NewFromInt(100)) }),
		suite.requesterID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.AppendLines(context.Background(), suite.orgID, draft.TransactionID, dto.AppendLinesRequest{
		Lines: []dto.CreateTransactionLineRequest{lineReq(2, "gl", -100.00, "HERA.FIN.GL.LINE.ENTRY.v1")},
	}, suite.requesterID)

	suite.Require().NoError(err)
	suite.Len(txn.Lines, 2)
	suite.Equal("100", txn.TotalAmount.String())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_RevalidatesBalance() {
	draft := suite.draftJournal()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, draft.TransactionID).Return(draft, nil).Once()
	suite.mockTxnRepo.On("FindLinesByTransactionID", mock.Anything, draft.TransactionID).
		Return([]domain.TransactionLine{storedLine(draft.TransactionID, 1, 100.00)}, nil).Once()

	_, err := suite.service.PostTransaction(context.Background(), suite.orgID, draft.TransactionID, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedLedger)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransactionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_BalancedDraftPosts() {
	draft := suite.draftJournal()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, draft.TransactionID).Return(draft, nil).Once()
	suite.mockTxnRepo.On("FindLinesByTransactionID", mock.Anything, draft.TransactionID).
		Return([]domain.TransactionLine{
			storedLine(draft.TransactionID, 1, 100.00),
			storedLine(draft.TransactionID, 2, -100.00),
		}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", mock.Anything, draft.TransactionID, domain.TxnStatusPosted, mock.Anything, suite.requesterID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.PostTransaction(context.Background(), suite.orgID, draft.TransactionID, suite.requesterID)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnStatusPosted, txn.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_CancelledIsTerminal() {
	cancelled := suite.draftJournal()
	cancelled.Status = domain.TxnStatusCancelled
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, cancelled.TransactionID).Return(cancelled, nil).Once()

	_, err := suite.service.PostTransaction(context.Background(), suite.orgID, cancelled.TransactionID, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (suite *TransactionServiceTestSuite) TestCancelTransaction_KeepsRowWithMarker() {
	posted := suite.draftJournal()
	posted.Status = domain.TxnStatusPosted
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, posted.TransactionID).Return(posted, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", mock.Anything, posted.TransactionID, domain.TxnStatusCancelled,
		mock.MatchedBy(func(metadata json.RawMessage) bool {
			var meta map[string]any
			if err := json.Unmarshal(metadata, &meta); err != nil {
				return false
			}
			marker, ok := meta["cancellation"].(map[string]any)
			return ok && marker["reason"] == "entered twice"
		}), suite.requesterID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.CancelTransaction(context.Background(), suite.orgID, posted.TransactionID, "entered twice", suite.requesterID)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnStatusCancelled, txn.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "HardDeleteTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestReverseTransaction_NegatesLines() {
	original := suite.draftJournal()
	original.Status = domain.TxnStatusPosted
	original.TotalAmount = decimal.NewFromInt(100)
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, original.TransactionID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindLinesByTransactionID", mock.Anything, original.TransactionID).
		Return([]domain.TransactionLine{
			storedLine(original.TransactionID, 1, 100.00),
			storedLine(original.TransactionID, 2, -100.00),
		}, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionCode == "REV-"+original.TransactionCode && txn.Status == domain.TxnStatusPosted
	}), mock.MatchedBy(func(lines []domain.TransactionLine) bool {
		return len(lines) == 2 &&
			lines[0].LineAmount.Equal(decimal.NewFromInt(-100)) &&
			lines[1].LineAmount.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", mock.Anything, original.TransactionID, domain.TxnStatusReversed, mock.Anything, suite.requesterID, mock.Anything).Return(nil).Once()

	reversing, err := suite.service.ReverseTransaction(context.Background(), suite.orgID, original.TransactionID, suite.requesterID)

	suite.Require().NoError(err)
	suite.NotEqual(original.TransactionID, reversing.TransactionID)
	suite.Contains(string(reversing.Metadata), original.TransactionID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestReverseTransaction_DraftCannotBeReversed() {
	draft := suite.draftJournal()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, draft.TransactionID).Return(draft, nil).Once()

	_, err := suite.service.ReverseTransaction(context.Background(), suite.orgID, draft.TransactionID, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPurgeTransaction() {
	posted := suite.draftJournal()
	posted.Status = domain.TxnStatusPosted
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, posted.TransactionID).Return(posted, nil).Once()
	suite.mockTxnRepo.On("HardDeleteTransaction", mock.Anything, posted.TransactionID).Return(nil).Once()

	err := suite.service.PurgeTransaction(context.Background(), suite.orgID, posted.TransactionID, suite.requesterID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCheckDuplicate() {
	sourceID := "customer-1"
	existing := domain.Transaction{
		TransactionID:   uuid.NewString(),
		SourceEntityID:  &sourceID,
		TotalAmount:     decimal.NewFromFloat(157.50),
		ReferenceNumber: "INV-1001",
		TransactionDate: suite.txnDate,
	}
	suite.mockTxnRepo.On("ListRecentTransactions", mock.Anything, suite.orgID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{existing}, nil).Once()

	resp, err := suite.service.CheckDuplicate(context.Background(), suite.orgID, dto.CheckDuplicateRequest{
		TransactionType: "SALE",
		TransactionDate: suite.txnDate,
		SourceEntityID:  &sourceID,
		TotalAmount:     decimal.NewFromFloat(157.50),
		ReferenceNumber: "INV-1001",
	})

	suite.Require().NoError(err)
	suite.True(resp.IsDuplicate)
	if suite.NotNil(resp.Evidence) {
		suite.Equal(existing.TransactionID, resp.Evidence.TransactionID)
	}
}

func (suite *TransactionServiceTestSuite) TestCheckDuplicate_RequiresOrganization() {
	_, err := suite.service.CheckDuplicate(context.Background(), "", dto.CheckDuplicateRequest{
		TransactionType: "SALE",
		TransactionDate: suite.txnDate,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTenantMismatch)
}
