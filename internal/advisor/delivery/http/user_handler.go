package http

import (
	"net/http"

	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/advisor/service"
	"stockpulse/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests for accounts and authentication.
type UserHandler struct {
	authService service.AuthService
	validate    *validator.Validate
	logger      *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService service.AuthService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the user routes to the Echo group. Routes under
// /me require a bearer token.
func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)

	protected := g.Group("/me", RequireAuth(h.authService))
	protected.GET("", h.Me)
	protected.PUT("/budget", h.UpdateBudget)
}

// Register godoc
// @Summary Register a new account
// @Description Create an account with email, password and optional budget
// @Tags users
// @Accept  json
// @Produce  json
// @Param   user  body    dto.RegisterRequest   true    "Account to create"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	user, err := h.authService.Register(c.Request().Context(), &req)
	if err == service.ErrEmailTaken {
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Email already registered"})
	}
	if err != nil {
		h.logger.Error("Failed to register user", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to register"})
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Exchange credentials for a bearer token
// @Tags users
// @Accept  json
// @Produce  json
// @Param   credentials  body    dto.LoginRequest   true    "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	token, err := h.authService.Login(c.Request().Context(), &req)
	if err == service.ErrInvalidCredentials {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid email or password"})
	}
	if err != nil {
		h.logger.Error("Failed to log in user", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to log in"})
	}
	return c.JSON(http.StatusOK, token)
}

// Me godoc
// @Summary Get the authenticated account
// @Tags users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID := AuthenticatedUserID(c)
	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err == service.ErrUserNotFound {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unknown account"})
	}
	if err != nil {
		h.logger.Error("Failed to get user", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get account"})
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateBudget godoc
// @Summary Update the position sizing budget
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   budget  body    dto.UpdateBudgetRequest   true    "New budget"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/me/budget [put]
func (h *UserHandler) UpdateBudget(c echo.Context) error {
	var req dto.UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	userID := AuthenticatedUserID(c)
	user, err := h.authService.UpdateBudget(c.Request().Context(), userID, req.Budget)
	if err == service.ErrUserNotFound {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unknown account"})
	}
	if err != nil {
		h.logger.Error("Failed to update budget", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update budget"})
	}
	return c.JSON(http.StatusOK, user)
}
