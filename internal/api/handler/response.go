package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope wraps every response body, successful or not.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, Envelope{Success: true, Data: data})
}

func ok(c echo.Context, data any) error {
	return respond(c, http.StatusOK, data)
}

func created(c echo.Context, data any) error {
	return respond(c, http.StatusCreated, data)
}
