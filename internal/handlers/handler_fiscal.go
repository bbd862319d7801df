package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/core/services"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
	"github.com/wekeza-coop/sacco_ledger/internal/middleware"
)

// fiscalHandler handles HTTP requests for fiscal periods and event mappings.
type fiscalHandler struct {
	fiscalService  portssvc.FiscalSvcFacade
	mappingService portssvc.MappingSvcFacade
}

func newFiscalHandler(fs portssvc.FiscalSvcFacade, ms portssvc.MappingSvcFacade) *fiscalHandler {
	return &fiscalHandler{fiscalService: fs, mappingService: ms}
}

// registerFiscalRoutes registers routes for period and mapping administration.
func registerFiscalRoutes(rg *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade, mappingService portssvc.MappingSvcFacade) {
	h := newFiscalHandler(fiscalService, mappingService)

	periods := rg.Group("/fiscal-periods")
	{
		periods.GET("", h.listPeriods)
		periods.GET("/active", h.getActivePeriod)
		periods.POST("/rotate", h.rotatePeriod)
	}

	mappings := rg.Group("/mappings")
	{
		mappings.GET("", h.listMappings)
		mappings.PUT("", h.upsertMapping)
	}
}

func (h *fiscalHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periods, err := h.fiscalService.ListPeriods(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list fiscal periods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal periods"})
		return
	}
	c.JSON(http.StatusOK, periods)
}

func (h *fiscalHandler) getActivePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := h.fiscalService.GetActivePeriod(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoActivePeriod) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get active fiscal period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve active period"})
		}
		return
	}
	c.JSON(http.StatusOK, period)
}

func (h *fiscalHandler) rotatePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RotatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	period, err := h.fiscalService.RotatePeriod(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriodBounds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to rotate fiscal period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate fiscal period"})
		}
		return
	}

	c.JSON(http.StatusCreated, period)
}

func (h *fiscalHandler) listMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	mappings, err := h.mappingService.ListMappings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list event mappings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list mappings"})
		return
	}
	c.JSON(http.StatusOK, mappings)
}

func (h *fiscalHandler) upsertMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	mapping, err := h.mappingService.UpsertMapping(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMappingSameAccount), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to upsert event mapping", slog.String("event", req.EventName), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upsert mapping"})
		}
		return
	}

	c.JSON(http.StatusOK, mapping)
}
