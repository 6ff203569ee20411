package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/dto"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	txnService portssvc.TransactionSvcFacade
}

func newTransactionHandler(txnService portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{txnService: txnService}
}

// createTransaction godoc
// @Summary Create a transaction with its lines
// @Description Persists a header and lines atomically; a posted financial transaction must balance
// @Tags transactions
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction and lines"
// @Success 201 {object} dto.CreateTransactionResponse
// @Failure 400 {object} map[string]string "Validation or balance failure"
// @Failure 422 {object} map[string]string "Suspected duplicate"
// @Router /organizations/{orgID}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}

	resp, err := h.txnService.CreateTransaction(c.Request.Context(), c.Param("orgID"), req, requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// getTransaction godoc
// @Summary Get a transaction with its lines
// @Tags transactions
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /organizations/{orgID}/transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.txnService.GetTransactionByID(c.Request.Context(), c.Param("orgID"), c.Param("transactionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param transaction_type query string false "Filter by type"
// @Param status query string false "Filter by status"
// @Param smart_code query string false "Filter by smart code"
// @Param limit query int false "Page size" default(20)
// @Param next_token query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /organizations/{orgID}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	resp, err := h.txnService.ListTransactions(c.Request.Context(), c.Param("orgID"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// appendLines godoc
// @Summary Append lines to a draft transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param transactionID path string true "Transaction ID"
// @Param lines body dto.AppendLinesRequest true "Lines to append"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not a draft, or duplicate line number"
// @Router /organizations/{orgID}/transactions/{transactionID}/lines [post]
func (h *transactionHandler) appendLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AppendLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for appendLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.AppendLines(c.Request.Context(), c.Param("orgID"), c.Param("transactionID"), req, requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// postTransaction godoc
// @Summary Post a draft transaction
// @Description Moves a draft to posted after re-checking the ledger balance
// @Tags transactions
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Unbalanced ledger"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /organizations/{orgID}/transactions/{transactionID}/post [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}
	txn, err := h.txnService.PostTransaction(c.Request.Context(), c.Param("orgID"), c.Param("transactionID"), requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// cancelTransactionRequest carries the optional cancellation reason.
type cancelTransactionRequest struct {
	Reason string `json:"reason"`
}

// cancelTransaction godoc
// @Summary Cancel a transaction
// @Description Soft-deletes the transaction; rows are preserved with a cancellation marker
// @Tags transactions
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param transactionID path string true "Transaction ID"
// @Param body body cancelTransactionRequest false "Cancellation reason"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /organizations/{orgID}/transactions/{transactionID}/cancel [post]
func (h *transactionHandler) cancelTransaction(c *gin.Context) {
	var req cancelTransactionRequest
	_ = c.ShouldBindJSON(&req)

	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}
	txn, err := h.txnService.CancelTransaction(c.Request.Context(), c.Param("orgID"), c.Param("transactionID"), req.Reason, requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction godoc
// @Summary Reverse a posted transaction
// @Description Creates a posted reversing transaction with negated amounts and marks the original reversed
// @Tags transactions
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param transactionID path string true "Transaction ID"
// @Success 201 {object} dto.TransactionResponse "The reversing transaction"
// @Failure 409 {object} map[string]string "Only posted transactions can be reversed"
// @Router /organizations/{orgID}/transactions/{transactionID}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}
	reversing, err := h.txnService.ReverseTransaction(c.Request.Context(), c.Param("orgID"), c.Param("transactionID"), requesterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversing))
}

// purgeTransaction godoc
// @Summary Permanently delete a transaction
// @Description Removes the header and its lines; privileged cleanup only
// @Tags transactions
// @Param orgID path string true "Organization ID"
// @Param transactionID path string true "Transaction ID"
// @Success 204 "Purged"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /organizations/{orgID}/transactions/{transactionID}/purge [delete]
func (h *transactionHandler) purgeTransaction(c *gin.Context) {
	requesterID, ok := requireRequesterID(c)
	if !ok {
		return
	}
	if err := h.txnService.PurgeTransaction(c.Request.Context(), c.Param("orgID"), c.Param("transactionID"), requesterID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// checkDuplicate godoc
// @Summary Score a candidate transaction for duplicates
// @Description Runs the duplicate heuristic against recent transactions without persisting anything
// @Tags transactions
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param candidate body dto.CheckDuplicateRequest true "Candidate transaction"
// @Success 200 {object} dto.CheckDuplicateResponse
// @Router /organizations/{orgID}/transactions/check-duplicate [post]
func (h *transactionHandler) checkDuplicate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CheckDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for checkDuplicate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.txnService.CheckDuplicate(c.Request.Context(), c.Param("orgID"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerTransactionRoutes registers transaction specific routes
func registerTransactionRoutes(group *gin.RouterGroup, txnService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(txnService)

	txns := group.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.POST("/check-duplicate", h.checkDuplicate)
		txns.GET("/:transactionID", h.getTransaction)
		txns.POST("/:transactionID/lines", h.appendLines)
		txns.POST("/:transactionID/post", h.postTransaction)
		txns.POST("/:transactionID/cancel", h.cancelTransaction)
		txns.POST("/:transactionID/reverse", h.reverseTransaction)
		txns.DELETE("/:transactionID/purge", h.purgeTransaction)
	}
}
