package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// billHandler handles bill payments and the biller directory.
type billHandler struct {
	paymentService portssvc.BillPaymentSvc
	billerService  portssvc.BillerSvc
}

func newBillHandler(ps portssvc.BillPaymentSvc, bs portssvc.BillerSvc) *billHandler {
	return &billHandler{
		paymentService: ps,
		billerService:  bs,
	}
}

// registerBillRoutes registers routes under /bills. Only paying is guarded.
func registerBillRoutes(rg *gin.RouterGroup, ps portssvc.BillPaymentSvc, bs portssvc.BillerSvc, guards []gin.HandlerFunc) {
	h := newBillHandler(ps, bs)

	bills := rg.Group("/bills")
	{
		bills.POST("/pay", withGuards(guards, h.payBill)...)
		bills.GET("/billers", h.listBillers)
		bills.GET("/saved", h.listSavedBillers)
		bills.POST("/saved", h.saveBiller)
		bills.DELETE("/saved/:billerID", h.removeSavedBiller)
		bills.GET("/history", h.listBillPayments)
		bills.GET("/scheduled", h.listScheduledPayments)
		bills.POST("/scheduled/:transactionID/cancel", h.cancelScheduledPayment)
		bills.GET("/receipts/:transactionID", h.getReceipt)
	}
}

// payBill godoc
// @Summary Pay a bill
// @Description Pays a biller from an account owned by the caller. A future scheduledDate places a hold
// @Description on the amount and debits it when the payment falls due.
// @Tags bills
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Client generated key for safe retries"
// @Param   payment body dto.PayBillRequest true "Payment details"
// @Success 200 {object} dto.SuccessResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account or biller not found"
// @Failure 409 {object} dto.ErrorResponse "Account or biller is not active"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Security BearerAuth
// @Router /bills/pay [post]
func (h *billHandler) payBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PayBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, "PayBill", err)
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID), slog.String("biller_id", req.BillerID))
	logger.Info("Received bill payment request", slog.String("amount", req.Amount.String()), slog.Bool("scheduled", req.ScheduledDate != nil))

	record, err := h.paymentService.PayBill(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, "PayBill", err)
		return
	}

	logger.Info("Bill payment accepted", slog.String("transaction_id", record.TransactionID), slog.String("status", string(record.Status)))
	c.JSON(http.StatusOK, dto.OK(dto.ToTransactionResponse(record)))
}

// listBillers godoc
// @Summary List billers
// @Tags bills
// @Produce  json
// @Param   category query string false "Biller category" Enums(utilities, telecom, insurance, credit_card, other)
// @Success 200 {object} dto.SuccessResponse{data=[]dto.BillerResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid category"
// @Failure 500 {object} dto.ErrorResponse "Failed to list billers"
// @Security BearerAuth
// @Router /bills/billers [get]
func (h *billHandler) listBillers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBillersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, "ListBillers", err)
		return
	}

	var category *domain.BillerCategory
	if params.Category != nil {
		cat := domain.BillerCategory(*params.Category)
		category = &cat
	}

	billers, err := h.billerService.ListBillers(c.Request.Context(), category)
	if err != nil {
		respondError(c, logger, "ListBillers", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToBillerResponses(billers)))
}

// listSavedBillers godoc
// @Summary List saved billers
// @Tags bills
// @Produce  json
// @Success 200 {object} dto.SuccessResponse{data=[]domain.SavedBiller}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list saved billers"
// @Security BearerAuth
// @Router /bills/saved [get]
func (h *billHandler) listSavedBillers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	saved, err := h.billerService.ListSavedBillers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, "ListSavedBillers", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(saved))
}

// saveBiller godoc
// @Summary Save a biller
// @Description Bookmarks a biller together with the caller's customer reference at that biller
// @Tags bills
// @Accept  json
// @Produce  json
// @Param   biller body dto.SaveBillerRequest true "Biller to save"
// @Success 201 {object} dto.SuccessResponse{data=domain.SavedBiller}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Biller not found"
// @Failure 409 {object} dto.ErrorResponse "Biller already saved"
// @Failure 500 {object} dto.ErrorResponse "Failed to save biller"
// @Security BearerAuth
// @Router /bills/saved [post]
func (h *billHandler) saveBiller(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaveBillerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, "SaveBiller", err)
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("biller_id", req.BillerID))

	saved, err := h.billerService.SaveBiller(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, "SaveBiller", err)
		return
	}

	logger.Info("Biller saved")
	c.JSON(http.StatusCreated, dto.OK(saved))
}

// removeSavedBiller godoc
// @Summary Remove a saved biller
// @Tags bills
// @Produce  json
// @Param   billerID path string true "Biller ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Biller is not saved"
// @Failure 500 {object} dto.ErrorResponse "Failed to remove saved biller"
// @Security BearerAuth
// @Router /bills/saved/{billerID} [delete]
func (h *billHandler) removeSavedBiller(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billerID := c.Param("billerID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("biller_id", billerID))

	if err := h.billerService.RemoveSavedBiller(c.Request.Context(), userID, billerID); err != nil {
		respondError(c, logger, "RemoveSavedBiller", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// listBillPayments godoc
// @Summary Bill payment history
// @Tags bills
// @Produce  json
// @Param   accountId query string true "Account ID"
// @Param   limit query int false "Page size" default(20) minimum(1) maximum(100)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.SuccessResponse{data=dto.ListTransactionsResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list payments"
// @Security BearerAuth
// @Router /bills/history [get]
func (h *billHandler) listBillPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BillPaymentHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, "ListBillPayments", err)
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", params.AccountID))

	records, nextToken, err := h.billerService.ListBillPayments(c.Request.Context(), userID, params.AccountID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, "ListBillPayments", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListTransactionsResponse{
		Transactions: dto.ToAccountTransactionResponses(records, params.AccountID),
		NextToken:    nextToken,
	}))
}

// listScheduledPayments godoc
// @Summary List scheduled payments
// @Description Lists the caller's bill payments that are still waiting for their scheduled date
// @Tags bills
// @Produce  json
// @Success 200 {object} dto.SuccessResponse{data=[]dto.TransactionResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list scheduled payments"
// @Security BearerAuth
// @Router /bills/scheduled [get]
func (h *billHandler) listScheduledPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	records, err := h.billerService.ListScheduledPayments(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, "ListScheduledPayments", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTransactionResponses(records)))
}

// cancelScheduledPayment godoc
// @Summary Cancel a scheduled payment
// @Description Cancels a payment that has not run yet and releases the held funds
// @Tags bills
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.TransactionResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Scheduled payment not found"
// @Failure 409 {object} dto.ErrorResponse "Payment already executed or cancelled"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Security BearerAuth
// @Router /bills/scheduled/{transactionID}/cancel [post]
func (h *billHandler) cancelScheduledPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received request to cancel scheduled payment")

	record, err := h.paymentService.CancelScheduledPayment(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondError(c, logger, "CancelScheduledPayment", err)
		return
	}

	logger.Info("Scheduled payment cancelled")
	c.JSON(http.StatusOK, dto.OK(dto.ToTransactionResponse(record)))
}

// getReceipt godoc
// @Summary Get a payment receipt
// @Tags bills
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.SuccessResponse{data=domain.PaymentReceipt}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to build receipt"
// @Security BearerAuth
// @Router /bills/receipts/{transactionID} [get]
func (h *billHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("transaction_id", transactionID))

	receipt, err := h.billerService.GetPaymentReceipt(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondError(c, logger, "GetPaymentReceipt", err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(receipt))
}
