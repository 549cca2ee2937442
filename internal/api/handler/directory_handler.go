package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

// DirectoryHandler serves the static practitioner and service catalog.
type DirectoryHandler struct {
	directory    ports.Directory
	availability ports.AvailabilityChecker
}

func NewDirectoryHandler(directory ports.Directory, availability ports.AvailabilityChecker) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, availability: availability}
}

type openSlotsResponse struct {
	Practitioner domain.Practitioner `json:"practitioner"`
	Date         string              `json:"date"`
	Slots        []string            `json:"slots"`
}

// Practitioners lists the practitioners.
//
// @Summary      List practitioners
// @Tags         directory
// @Produce      json
// @Success      200  {object}  Envelope{data=[]domain.Practitioner}
// @Router       /v1/practitioners [get]
func (h *DirectoryHandler) Practitioners(c echo.Context) error {
	return ok(c, h.directory.ListPractitioners())
}

// Services lists the bookable services.
//
// @Summary      List services
// @Tags         directory
// @Produce      json
// @Success      200  {object}  Envelope{data=[]domain.Service}
// @Router       /v1/services [get]
func (h *DirectoryHandler) Services(c echo.Context) error {
	return ok(c, h.directory.ListServices())
}

// OpenSlots lists the free slots of a practitioner on a date.
//
// @Summary      Open slots for a practitioner
// @Tags         directory
// @Produce      json
// @Param        id    path      int     true  "Practitioner id"
// @Param        date  query     string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  Envelope{data=openSlotsResponse}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /v1/practitioners/{id}/slots [get]
func (h *DirectoryHandler) OpenSlots(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "practitioner id must be a number")
	}
	p, found := h.directory.PractitionerByID(id)
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "practitioner not found")
	}

	date := c.QueryParam("date")
	slots, err := h.availability.OpenSlots(c.Request().Context(), p, date)
	if err != nil {
		return err
	}

	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label())
	}
	return ok(c, openSlotsResponse{Practitioner: p, Date: date, Slots: labels})
}
