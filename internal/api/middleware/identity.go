package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vedaclinic/booking-api/internal/api/metrics"
	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

const (
	identityKey = "identity"
	tokenKey    = "session_token"
)

// Identity resolves the caller from the bearer token on every request and
// stores the result in the echo context. It never rejects a request; routes
// that need a session add RequireAuth or RequireAdmin.
func Identity(gate ports.IdentityGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c.Request())
			id := gate.Resolve(c.Request().Context(), token)

			SetIdentity(c, id)
			c.Set(tokenKey, token)
			metrics.IdentityResolutionsTotal.WithLabelValues(resolutionLabel(id)).Inc()

			return next(c)
		}
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IdentityFrom(c).Authenticated {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// SetIdentity stores id as the caller of the request.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by Identity, or anonymous.
func IdentityFrom(c echo.Context) domain.Identity {
	id, _ := c.Get(identityKey).(domain.Identity)
	return id
}

// TokenFrom returns the raw bearer token of the request, if any.
func TokenFrom(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
// A missing or malformed header yields "".
func BearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func resolutionLabel(id domain.Identity) string {
	switch {
	case id.IsAdmin:
		return "admin"
	case id.Authenticated:
		return "user"
	default:
		return "anonymous"
	}
}
