package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers the read and lifecycle routes of accounts.
func registerAccountRoutes(accounts *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts.POST("", h.createAccount)
	accounts.GET("", h.listAccounts)
	accounts.GET("/:accountID", h.getAccount)
	accounts.GET("/:accountID/balance", h.getAccountBalance)
	accounts.GET("/:accountID/transactions", h.listTransactions)
	accounts.DELETE("/:accountID", h.deactivateAccount)
}

// createAccount godoc
// @Summary Open a new account
// @Description Creates a zero-balance account for the logged-in user
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.SuccessResponse{data=dto.AccountResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unsupported currency"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, "CreateAccount", err)
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("account_type", string(req.AccountType)), slog.String("currency_code", req.CurrencyCode))

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, "CreateAccount", err)
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToAccountResponse(account)))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists every account owned by the logged-in user
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.SuccessResponse{data=dto.ListAccountsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, "ListAccounts", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)}))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.AccountResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", accountID))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, logger, "GetAccount", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToAccountResponse(account)))
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Returns the balance, the amount on hold for scheduled payments and the available balance
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.AccountBalanceResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve balance"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", accountID))

	balance, err := h.accountService.GetAccountBalance(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, logger, "GetAccountBalance", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToAccountBalanceResponse(balance)))
}

// listTransactions godoc
// @Summary List account transactions
// @Description Lists ledger records touching an account, newest first, with token pagination
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(20) minimum(1) maximum(100)
// @Param   nextToken query string false "Token from the previous page"
// @Param   startDate query string false "Inclusive lower bound (RFC3339)"
// @Param   endDate query string false "Inclusive upper bound (RFC3339)"
// @Param   type query string false "Record type" Enums(transfer, bill_payment, deposit, withdrawal)
// @Param   status query string false "Record status" Enums(pending, scheduled, completed, failed, cancelled)
// @Success 200 {object} dto.SuccessResponse{data=dto.ListTransactionsResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, "ListTransactions", err)
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", accountID))

	records, nextToken, err := h.accountService.GetTransactionHistory(c.Request.Context(), userID, accountID, params.ToFilter())
	if err != nil {
		respondError(c, logger, "ListTransactions", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListTransactionsResponse{
		Transactions: dto.ToAccountTransactionResponses(records, accountID),
		NextToken:    nextToken,
	}))
}

// deactivateAccount godoc
// @Summary Close an account
// @Description Deactivates an empty account. Accounts with a balance or funds on hold cannot be closed.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Account is not empty or already inactive"
// @Failure 500 {object} dto.ErrorResponse "Failed to deactivate account"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", accountID))
	logger.Info("Received request to deactivate account")

	if err := h.accountService.DeactivateAccount(c.Request.Context(), userID, accountID); err != nil {
		respondError(c, logger, "DeactivateAccount", err)
		return
	}

	logger.Info("Account deactivated successfully")
	c.Status(http.StatusNoContent)
}
