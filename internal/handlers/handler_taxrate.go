package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
	"github.com/openclerk/ledger/internal/middleware"
)

// taxRateHandler handles HTTP requests related to tax rates.
type taxRateHandler struct {
	taxRateService portssvc.TaxRateSvcFacade
}

// registerTaxRateRoutes registers routes related to tax rates.
func registerTaxRateRoutes(rg *gin.RouterGroup, taxRateService portssvc.TaxRateSvcFacade) {
	h := &taxRateHandler{taxRateService: taxRateService}

	rates := rg.Group("/tax-rates")
	{
		rates.POST("", h.createTaxRate)
		rates.GET("", h.listTaxRates)
		rates.GET("/:code", h.getTaxRate)
		rates.PUT("/:code", h.updateTaxRate)
		rates.POST("/calculate", h.calculateTax)
	}
}

func (h *taxRateHandler) createTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTaxRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	rate, err := h.taxRateService.CreateTaxRate(c.Request.Context(), tenantID(c), req, actorID)
	if err != nil {
		logger.Warn("Failed to create tax rate", slog.String("error", err.Error()), slog.String("code", req.Code))
		respondError(c, err, "Failed to create tax rate")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaxRateResponse(rate))
}

func (h *taxRateHandler) getTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// The path segment accepts either a rate ID or a code.
	rate, err := h.taxRateService.GetTaxRate(c.Request.Context(), tenantID(c), c.Param("code"))
	if err != nil {
		logger.Warn("Failed to get tax rate", slog.String("error", err.Error()), slog.String("code", c.Param("code")))
		respondError(c, err, "Failed to retrieve tax rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxRateResponse(rate))
}

func (h *taxRateHandler) updateTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTaxRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	rate, err := h.taxRateService.UpdateTaxRate(c.Request.Context(), tenantID(c), c.Param("code"), req, actorID)
	if err != nil {
		logger.Warn("Failed to update tax rate", slog.String("error", err.Error()), slog.String("code", c.Param("code")))
		respondError(c, err, "Failed to update tax rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxRateResponse(rate))
}

func (h *taxRateHandler) listTaxRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.taxRateService.ListTaxRates(c.Request.Context(), tenantID(c))
	if err != nil {
		logger.Error("Failed to list tax rates", slog.String("error", err.Error()))
		respondError(c, err, "Failed to list tax rates")
		return
	}

	responses := make([]dto.TaxRateResponse, len(rates))
	for i := range rates {
		responses[i] = dto.ToTaxRateResponse(&rates[i])
	}
	c.JSON(http.StatusOK, gin.H{"taxRates": responses})
}

func (h *taxRateHandler) calculateTax(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateTax", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.taxRateService.Calculate(c.Request.Context(), tenantID(c), req)
	if err != nil {
		logger.Warn("Failed to calculate tax", slog.String("error", err.Error()), slog.String("rate_code", req.RateCode))
		respondError(c, err, "Failed to calculate tax")
		return
	}

	c.JSON(http.StatusOK, result)
}
