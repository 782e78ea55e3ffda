package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
	"github.com/openclerk/ledger/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := &accountHandler{accountService: accountService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.DELETE("/:id", h.deactivateAccount)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID(c), req, actorID)
	if err != nil {
		logger.Warn("Failed to create account", slog.String("error", err.Error()), slog.String("code", req.Code))
		respondError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		logger.Warn("Failed to get account", slog.String("error", err.Error()), slog.String("account_id", c.Param("id")))
		respondError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), tenantID(c), c.Param("id"), req, actorID)
	if err != nil {
		logger.Warn("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", c.Param("id")))
		respondError(c, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		logger.Warn("Failed to get account balance", slog.String("error", err.Error()), slog.String("account_id", c.Param("id")))
		respondError(c, err, "Failed to retrieve account balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: account.AccountID,
		Code:      account.Code,
		Balance:   account.Balance,
	})
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), tenantID(c), limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		respondError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToAccountResponses(accounts)})
}

func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), tenantID(c), c.Param("id"), actorID); err != nil {
		logger.Warn("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", c.Param("id")))
		respondError(c, err, "Failed to deactivate account")
		return
	}

	c.Status(http.StatusNoContent)
}
