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

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.PATCH("/:id/status", h.updateInvoiceStatus)
		invoices.POST("/:id/post", h.postInvoice)
	}
}

func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), tenantID(c), req, actorID)
	if err != nil {
		logger.Warn("Failed to create invoice", slog.String("error", err.Error()), slog.String("reference", req.Reference))
		respondError(c, err, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		logger.Warn("Failed to get invoice", slog.String("error", err.Error()), slog.String("invoice_id", c.Param("id")))
		respondError(c, err, "Failed to retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID(c), limit, offset)
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("error", err.Error()))
		respondError(c, err, "Failed to list invoices")
		return
	}

	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	c.JSON(http.StatusOK, gin.H{"invoices": responses})
}

func (h *invoiceHandler) updateInvoiceStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInvoiceStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), tenantID(c), c.Param("id"), domain.DocumentStatus(req.Status), actorID)
	if err != nil {
		logger.Warn("Failed to update invoice status", slog.String("error", err.Error()), slog.String("invoice_id", c.Param("id")))
		respondError(c, err, "Failed to update invoice status")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	invoice, err := h.invoiceService.PostInvoice(c.Request.Context(), tenantID(c), c.Param("id"), actorID)
	if err != nil {
		logger.Warn("Failed to post invoice", slog.String("error", err.Error()), slog.String("invoice_id", c.Param("id")))
		respondError(c, err, "Failed to post invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
