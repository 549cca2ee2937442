package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vedaclinic/booking-api/internal/api/middleware"
	"github.com/vedaclinic/booking-api/internal/core/domain"
)

// caller returns the identity resolved by the Identity middleware. Handlers
// pass it through unchanged; authorization decisions live in the services.
func caller(c echo.Context) domain.Identity {
	return middleware.IdentityFrom(c)
}

// bind decodes the request body into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// requireParam fails fast on an empty path parameter.
func requireParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	return v, nil
}
