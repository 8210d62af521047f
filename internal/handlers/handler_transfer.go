package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles money movements on accounts.
type transferHandler struct {
	transferService portssvc.TransferSvc
}

func newTransferHandler(ts portssvc.TransferSvc) *transferHandler {
	return &transferHandler{transferService: ts}
}

// registerTransferRoutes registers the balance-changing account routes behind guards.
func registerTransferRoutes(accounts *gin.RouterGroup, transferService portssvc.TransferSvc, guards []gin.HandlerFunc) {
	h := newTransferHandler(transferService)

	accounts.POST("/transfer", withGuards(guards, h.transfer)...)
	accounts.POST("/:accountID/deposit", withGuards(guards, h.deposit)...)
	accounts.POST("/:accountID/withdraw", withGuards(guards, h.withdraw)...)
}

// transfer godoc
// @Summary Transfer funds
// @Description Moves money from an account owned by the caller to another account in the same currency.
// @Description The transfer either fully commits or leaves no trace. Send an Idempotency-Key header to retry safely.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Client generated key for safe retries"
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.SuccessResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Account is not active or request in progress"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Security BearerAuth
// @Router /accounts/transfer [post]
func (h *transferHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, "Transfer", err)
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("from_account_id", req.FromAccountID), slog.String("to_account_id", req.ToAccountID))
	logger.Info("Received transfer request", slog.String("amount", req.Amount.String()))

	record, err := h.transferService.Transfer(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, "Transfer", err)
		return
	}

	logger.Info("Transfer completed", slog.String("transaction_id", record.TransactionID))
	c.JSON(http.StatusOK, dto.OK(dto.ToTransactionResponse(record)))
}

// deposit godoc
// @Summary Deposit funds
// @Description Credits an account owned by the caller from outside the bank.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   Idempotency-Key header string false "Client generated key for safe retries"
// @Param   deposit body dto.MovementRequest true "Deposit details"
// @Success 200 {object} dto.SuccessResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Account is not active"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Security BearerAuth
// @Router /accounts/{accountID}/deposit [post]
func (h *transferHandler) deposit(c *gin.Context) {
	h.movement(c, "Deposit", h.transferService.Deposit)
}

// withdraw godoc
// @Summary Withdraw funds
// @Description Debits an account owned by the caller to outside the bank.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   Idempotency-Key header string false "Client generated key for safe retries"
// @Param   withdrawal body dto.MovementRequest true "Withdrawal details"
// @Success 200 {object} dto.SuccessResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Account is not active"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Security BearerAuth
// @Router /accounts/{accountID}/withdraw [post]
func (h *transferHandler) withdraw(c *gin.Context) {
	h.movement(c, "Withdraw", h.transferService.Withdraw)
}

func (h *transferHandler) movement(
	c *gin.Context,
	action string,
	run func(ctx context.Context, userID string, accountID string, req dto.MovementRequest) (*domain.TransactionRecord, error),
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, action, err)
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	logger.Info("Received "+action+" request", slog.String("amount", req.Amount.String()))

	record, err := run(c.Request.Context(), userID, accountID, req)
	if err != nil {
		respondError(c, logger, action, err)
		return
	}

	logger.Info(action+" completed", slog.String("transaction_id", record.TransactionID))
	c.JSON(http.StatusOK, dto.OK(dto.ToTransactionResponse(record)))
}
