package middleware

import (
	"net/http"

	"github.com/alimikegami/point-of-sales/checkout-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/response"
	"github.com/labstack/echo/v4"
)

// AllowOrigin admits browser calls from exactly one origin and answers their preflight.
func AllowOrigin(allowedOrigin string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if allowedOrigin == "" || origin != allowedOrigin {
				return response.WriteErrorResponse(c, errs.ErrForbiddenOrigin)
			}

			header := c.Response().Header()
			header.Set(echo.HeaderAccessControlAllowOrigin, allowedOrigin)
			header.Set(echo.HeaderAccessControlAllowMethods, "POST, OPTIONS")
			header.Set(echo.HeaderAccessControlAllowHeaders, echo.HeaderContentType)

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}
