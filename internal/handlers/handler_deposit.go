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

// depositHandler handles HTTP requests for the allocation processor.
type depositHandler struct {
	depositService portssvc.DepositSvcFacade
}

func newDepositHandler(ds portssvc.DepositSvcFacade) *depositHandler {
	return &depositHandler{depositService: ds}
}

// registerDepositRoutes registers routes related to deposits.
func registerDepositRoutes(rg *gin.RouterGroup, depositService portssvc.DepositSvcFacade) {
	h := newDepositHandler(depositService)

	deposits := rg.Group("/deposits")
	{
		deposits.POST("", h.createDeposit)
		deposits.GET("/:id", h.getDeposit)
	}
	rg.GET("/members/:memberID/deposits", h.listMemberDeposits)
}

func (h *depositHandler) createDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDeposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	deposit, err := h.depositService.CreateDeposit(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, services.ErrAllocationMismatch),
			errors.Is(err, services.ErrDestinationOwnership),
			errors.Is(err, services.ErrDestinationInactive),
			errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoActivePeriod),
			errors.Is(err, services.ErrPeriodClosed),
			errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create deposit", slog.String("payment_reference", req.PaymentReference), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process deposit"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToDepositResponse(deposit))
}

func (h *depositHandler) getDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	depositID := c.Param("id")

	deposit, err := h.depositService.GetDeposit(c.Request.Context(), depositID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deposit not found"})
		} else {
			logger.Error("Failed to get deposit", slog.String("deposit_id", depositID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deposit"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDepositResponse(deposit))
}

func (h *depositHandler) listMemberDeposits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")

	deposits, err := h.depositService.ListMemberDeposits(c.Request.Context(), memberID)
	if err != nil {
		logger.Error("Failed to list deposits", slog.String("member_id", memberID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list deposits"})
		return
	}

	responses := make([]dto.DepositResponse, len(deposits))
	for i := range deposits {
		responses[i] = dto.ToDepositResponse(&deposits[i])
	}
	c.JSON(http.StatusOK, responses)
}
