package http

import (
	"net/http"
	"strconv"

	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/advisor/service"
	"stockpulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// VerificationHandler handles HTTP requests for the prediction ledger and its
// track record.
type VerificationHandler struct {
	verificationService service.VerificationService
	logger              *logger.Logger
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService service.VerificationService, logger *logger.Logger) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService, logger: logger}
}

// RegisterRoutes registers the verification routes to the Echo group.
func (h *VerificationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stats", h.GetStats)
	g.GET("/status", h.GetStatus)
	g.GET("/predictions", h.GetPredictions)
	g.POST("/run", h.Run)
	g.POST("/recalculate", h.Recalculate)
}

// GetStats godoc
// @Summary Get verification statistics
// @Description Get the latest accuracy and return statistics per horizon
// @Tags verification
// @Produce  json
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/stats [get]
func (h *VerificationHandler) GetStats(c echo.Context) error {
	stats, err := h.verificationService.LatestStats(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get verification stats", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stats"})
	}
	return c.JSON(http.StatusOK, stats)
}

// GetStatus godoc
// @Summary Get system status
// @Description Report whether recommendations are actionable or observational
// @Tags verification
// @Produce  json
// @Success 200 {object} dto.SystemStatusResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/status [get]
func (h *VerificationHandler) GetStatus(c echo.Context) error {
	status, err := h.verificationService.SystemStatus(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get system status", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get status"})
	}
	return c.JSON(http.StatusOK, status)
}

// GetPredictions godoc
// @Summary Get prediction history
// @Description Get the most recent ledger entries with verification outcomes
// @Tags verification
// @Produce  json
// @Param   limit  query    int false    "Maximum entries to return"
// @Success 200 {array} dto.PredictionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/predictions [get]
func (h *VerificationHandler) GetPredictions(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = parsed
	}

	predictions, err := h.verificationService.PredictionHistory(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get prediction history", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get predictions"})
	}
	return c.JSON(http.StatusOK, predictions)
}

// Run godoc
// @Summary Run a verification pass
// @Description Verify every matured, still-pending prediction horizon
// @Tags verification
// @Produce  json
// @Success 200 {object} dto.RunVerificationResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/run [post]
func (h *VerificationHandler) Run(c echo.Context) error {
	result, err := h.verificationService.RunVerification(c.Request().Context())
	if err != nil {
		h.logger.Error("Verification run failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Verification run failed"})
	}
	return c.JSON(http.StatusOK, dto.RunVerificationResponse{
		Status:      "completed",
		Verified1D:  result.Verified1D,
		Verified7D:  result.Verified7D,
		Verified30D: result.Verified30D,
		Errors:      result.Errors,
	})
}

// Recalculate godoc
// @Summary Recalculate statistics
// @Description Recompute the track record snapshot from the ledger
// @Tags verification
// @Produce  json
// @Success 200 {object} dto.RecalculateResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/recalculate [post]
func (h *VerificationHandler) Recalculate(c echo.Context) error {
	stats, err := h.verificationService.RecalculateStats(c.Request().Context())
	if err != nil {
		h.logger.Error("Stats recalculation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Stats recalculation failed"})
	}
	return c.JSON(http.StatusOK, dto.RecalculateResponse{
		Status:       "recalculated",
		Accuracy7D:   stats.Stats7D.Accuracy,
		IsUnlocked:   stats.IsUnlocked,
		UnlockReason: stats.UnlockReason,
	})
}
