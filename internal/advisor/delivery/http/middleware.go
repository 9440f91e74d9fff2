package http

import (
	"net/http"
	"strings"

	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/advisor/service"

	"github.com/labstack/echo/v4"
)

const userIDContextKey = "user_id"

// RequireAuth returns an echo middleware that validates the bearer token and
// stores the authenticated user ID on the request context.
func RequireAuth(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Missing bearer token"})
			}

			userID, err := authService.ParseToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			}

			c.Set(userIDContextKey, userID)
			return next(c)
		}
	}
}

// AuthenticatedUserID returns the user ID stored by RequireAuth.
func AuthenticatedUserID(c echo.Context) uint {
	userID, _ := c.Get(userIDContextKey).(uint)
	return userID
}
