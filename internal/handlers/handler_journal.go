package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
	"github.com/openclerk/ledger/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.POST("/manual", h.createManualEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/reverse", h.reverseEntry)
		entries.DELETE("/:id", h.deleteDraftEntry)
	}
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), tenantID(c), req, actorID)
	if err != nil {
		logger.Warn("Failed to create journal entry", slog.String("error", err.Error()), slog.String("reference", req.Reference))
		respondError(c, err, "Failed to create journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) createManualEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateManualEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	entry, err := h.journalService.CreateManualEntry(c.Request.Context(), tenantID(c), req, actorID)
	if err != nil {
		logger.Warn("Failed to create manual entry", slog.String("error", err.Error()), slog.String("reference", req.Reference))
		respondError(c, err, "Failed to create manual entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// Options body is optional; an empty body means a strict post.
	var req dto.PostEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for PostEntry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	entry, err := h.journalService.Post(c.Request.Context(), tenantID(c), c.Param("id"), actorID,
		portssvc.PostOptions{Idempotent: req.Idempotent})
	if err != nil {
		logger.Warn("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", c.Param("id")))
		respondError(c, err, "Failed to post journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	reversing, err := h.journalService.Reverse(c.Request.Context(), tenantID(c), c.Param("id"), actorID)
	if err != nil {
		logger.Warn("Failed to reverse entry", slog.String("error", err.Error()), slog.String("entry_id", c.Param("id")))
		respondError(c, err, "Failed to reverse journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversing))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		logger.Warn("Failed to get entry", slog.String("error", err.Error()), slog.String("entry_id", c.Param("id")))
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// A reference query narrows the listing to one exact entry.
	if reference := c.Query("reference"); reference != "" {
		entry, err := h.journalService.GetJournalEntryByReference(c.Request.Context(), tenantID(c), reference)
		if err != nil {
			logger.Warn("Failed to find entry by reference", slog.String("error", err.Error()), slog.String("reference", reference))
			respondError(c, err, "Failed to retrieve journal entry")
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": []dto.JournalEntryResponse{dto.ToJournalEntryResponse(entry)}})
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.journalService.ListJournalEntries(c.Request.Context(), tenantID(c), params)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		respondError(c, err, "Failed to list journal entries")
		return
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, gin.H{"entries": responses})
}

func (h *journalHandler) deleteDraftEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return
	}

	if err := h.journalService.DeleteDraftEntry(c.Request.Context(), tenantID(c), c.Param("id"), actorID); err != nil {
		logger.Warn("Failed to delete draft entry", slog.String("error", err.Error()), slog.String("entry_id", c.Param("id")))
		respondError(c, err, "Failed to delete draft entry")
		return
	}

	c.Status(http.StatusNoContent)
}
