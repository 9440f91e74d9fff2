package http

import (
	"net/http"

	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/advisor/service"
	"stockpulse/pkg/logger"
	"stockpulse/pkg/utils"

	"github.com/labstack/echo/v4"
)

// DigestHandler handles HTTP requests for daily digests.
type DigestHandler struct {
	digestService service.DigestService
	logger        *logger.Logger
}

// NewDigestHandler creates a new DigestHandler.
func NewDigestHandler(digestService service.DigestService, logger *logger.Logger) *DigestHandler {
	return &DigestHandler{digestService: digestService, logger: logger}
}

// RegisterRoutes registers the digest routes to the Echo group.
func (h *DigestHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/latest", h.GetLatest)
	g.GET("/:date", h.GetByDate)
	g.POST("/generate", h.Generate)
}

// GetLatest godoc
// @Summary Get the latest digest
// @Description Get the most recently generated daily digest
// @Tags digest
// @Produce  json
// @Success 200 {object} dto.DigestResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digest/latest [get]
func (h *DigestHandler) GetLatest(c echo.Context) error {
	digest, err := h.digestService.GetLatest(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get latest digest", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get digest"})
	}
	if digest == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No digest generated yet"})
	}
	return c.JSON(http.StatusOK, digest)
}

// GetByDate godoc
// @Summary Get a digest by date
// @Description Get the digest generated on a given date (YYYY-MM-DD)
// @Tags digest
// @Produce  json
// @Param   date  path    string true    "Digest date"
// @Success 200 {object} dto.DigestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digest/{date} [get]
func (h *DigestHandler) GetByDate(c echo.Context) error {
	date := c.Param("date")
	if _, err := utils.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
	}

	digest, err := h.digestService.GetByDate(c.Request().Context(), date)
	if err != nil {
		h.logger.Error("Failed to get digest by date", logger.StringField("date", date), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get digest"})
	}
	if digest == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No digest found for " + date})
	}
	return c.JSON(http.StatusOK, digest)
}

// Generate godoc
// @Summary Generate a digest
// @Description Score the tracked universe and generate today's digest
// @Tags digest
// @Produce  json
// @Success 200 {object} dto.GenerateDigestResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digest/generate [post]
func (h *DigestHandler) Generate(c echo.Context) error {
	digest, err := h.digestService.Generate(c.Request().Context())
	if err != nil {
		h.logger.Error("Digest generation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Digest generation failed"})
	}
	return c.JSON(http.StatusOK, dto.GenerateDigestResponse{
		Status:    "generated",
		Date:      digest.Date,
		BuyCount:  len(digest.Buy),
		SellCount: len(digest.Sell),
	})
}
