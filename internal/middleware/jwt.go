package middleware

import (
	"net/http"
	"strings"

	"notagest/internal/common"
	"notagest/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware validates the Authorization bearer token and puts the
// verified principal into the request context. This is the only header
// scheme the services accept.
func JWTMiddleware(tokenSvc services.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := tokenSvc.Validate(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user id in token")
			}

			ctx := common.WithPrincipal(c.Request().Context(), common.Principal{
				UserID: userID,
				Email:  claims.Email,
			})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
