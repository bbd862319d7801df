package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/core/services"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
	"github.com/wekeza-coop/sacco_ledger/internal/middleware"
)

// postingHandler handles HTTP requests for the journal posting engine.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: ps}
}

// registerPostingRoutes registers routes related to journal posting.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	journal := rg.Group("/journal")
	{
		journal.POST("/events", h.postEvent)
		journal.POST("/entries", h.postCompound)
		journal.GET("/entries", h.listEntries)
		journal.GET("/entries/:id", h.getEntry)
	}
}

// postingErrorStatus maps posting failures onto HTTP statuses.
func postingErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrEventNotMapped),
		errors.Is(err, services.ErrEntryMinAccounts),
		errors.Is(err, services.ErrAmountNotPositive),
		errors.Is(err, services.ErrDateOutsidePeriod):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoActivePeriod),
		errors.Is(err, services.ErrPeriodClosed),
		errors.Is(err, services.ErrAccountInactive),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *postingHandler) postEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	entry, err := h.postingService.PostEvent(c.Request.Context(), req)
	if err != nil {
		status := postingErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to post event", slog.String("event", req.EventName), slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to post event"})
		} else {
			c.JSON(status, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *postingHandler) postCompound(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostCompoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postCompound", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	entry, err := h.postingService.PostCompound(c.Request.Context(), req)
	if err != nil {
		status := postingErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to post compound entry", slog.String("reference_no", req.ReferenceNo), slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to post entry"})
		} else {
			c.JSON(status, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *postingHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.postingService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else {
			logger.Error("Failed to get journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries serves both the reference lookup (?reference=) and the date
// range listing (?from=&to=).
func (h *postingHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if reference := c.Query("reference"); reference != "" {
		entries, err := h.postingService.FindEntriesByReference(c.Request.Context(), reference)
		if err != nil {
			logger.Error("Failed to find entries by reference", slog.String("reference_no", reference), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
			return
		}
		c.JSON(http.StatusOK, toEntryResponses(entries))
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'from' date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'to' date, expected YYYY-MM-DD"})
		return
	}

	// Include entries timestamped anywhere inside the 'to' day.
	entries, err := h.postingService.ListEntriesInRange(c.Request.Context(), from, endOfDay(to))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list entries in range", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}
	c.JSON(http.StatusOK, toEntryResponses(entries))
}

func toEntryResponses(entries []domain.JournalEntry) []dto.JournalEntryResponse {
	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return responses
}
