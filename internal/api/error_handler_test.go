package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation), http.StatusBadRequest, "validation failed: date must be YYYY-MM-DD"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", fmt.Errorf("%w to cancel this appointment", domain.ErrForbidden), http.StatusForbidden, "not authorized to cancel this appointment"},
		{"not found", fmt.Errorf("find: %w", domain.ErrAppointmentNotFound), http.StatusNotFound, "appointment not found"},
		{"conflict", domain.ErrSlotUnavailable, http.StatusConflict, domain.ErrSlotUnavailable.Error()},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"timeout", fmt.Errorf("insert: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "upstream timeout: outcome unknown, retry with the same Idempotency-Key"},
		{"rate limited", echo.NewHTTPError(http.StatusTooManyRequests, "too many requests"), http.StatusTooManyRequests, "too many requests"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["success"] != false || body["error"] != tt.msg {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}
