package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openclerk/ledger/internal/core/domain"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
	"github.com/openclerk/ledger/internal/middleware"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// registerExpenseRoutes registers routes related to expenses.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := &expenseHandler{expenseService: expenseService}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.PATCH("/:id/status", h.updateExpenseStatus)
		expenses.POST("/:id/post", h.postExpense)
	}
}

func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), tenantID(c), req, actorID)
	if err != nil {
		logger.Warn("Failed to create expense", slog.String("error", err.Error()), slog.String("reference", req.Reference))
		respondError(c, err, "Failed to create expense")
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		logger.Warn("Failed to get expense", slog.String("error", err.Error()), slog.String("expense_id", c.Param("id")))
		respondError(c, err, "Failed to retrieve expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), tenantID(c), limit, offset)
	if err != nil {
		logger.Error("Failed to list expenses", slog.String("error", err.Error()))
		respondError(c, err, "Failed to list expenses")
		return
	}

	responses := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = dto.ToExpenseResponse(&expenses[i])
	}
	c.JSON(http.StatusOK, gin.H{"expenses": responses})
}

func (h *expenseHandler) updateExpenseStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpenseStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	expense, err := h.expenseService.UpdateExpenseStatus(c.Request.Context(), tenantID(c), c.Param("id"), domain.DocumentStatus(req.Status), actorID)
	if err != nil {
		logger.Warn("Failed to update expense status", slog.String("error", err.Error()), slog.String("expense_id", c.Param("id")))
		respondError(c, err, "Failed to update expense status")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

func (h *expenseHandler) postExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// Approval body is optional; an empty body means unlimited authority.
	var req dto.PostExpenseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for PostExpense", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	expense, err := h.expenseService.PostExpense(c.Request.Context(), tenantID(c), c.Param("id"), actorID, req)
	if err != nil {
		logger.Warn("Failed to post expense", slog.String("error", err.Error()), slog.String("expense_id", c.Param("id")))
		respondError(c, err, "Failed to post expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}
