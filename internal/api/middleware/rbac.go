package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

// RequireAdmin admits only callers whose session resolved with admin rights.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if !id.Authenticated {
				return domain.ErrUnauthenticated
			}
			if !id.IsAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
