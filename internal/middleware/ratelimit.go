package middleware

import (
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/response"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit caps how many requests per second reach the route across all callers.
func RateLimit(perSecond int, burst int) echo.MiddlewareFunc {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return response.WriteErrorResponse(c, errs.ErrTooManyRequests)
			}
			return next(c)
		}
	}
}
