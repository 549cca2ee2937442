package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/vedaclinic/booking-api/internal/api/metrics"
	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

const idempotencyHeader = "Idempotency-Key"

// AppointmentHandler handles the self-service appointment routes.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Create books a slot for the caller.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Replays return the original booking"
// @Param        body             body      bookingRequest  true   "Booking details"
// @Success      201              {object}  Envelope{data=domain.Appointment}
// @Success      200              {object}  Envelope{data=domain.Appointment}  "replayed"
// @Failure      400              {object}  Envelope
// @Failure      401              {object}  Envelope
// @Failure      409              {object}  Envelope
// @Failure      504              {object}  Envelope
// @Router       /v1/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req bookingRequest
	if err := bind(c, &req); err != nil {
		metrics.BookingsTotal.WithLabelValues("self", "invalid").Inc()
		return err
	}

	result, err := h.service.CreateAppointment(c.Request().Context(), caller(c), ports.BookingInput{
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		UserPhone:        req.UserPhone,
		PractitionerName: req.DoctorName,
		Date:             req.Date,
		Time:             req.Time,
		ServiceType:      req.ServiceType,
		Notes:            req.Notes,
		IdempotencyKey:   c.Request().Header.Get(idempotencyHeader),
	})
	if err != nil {
		countBooking("self", err)
		countConflict("create", err)
		return err
	}

	if result.AlreadyExisted {
		metrics.BookingsTotal.WithLabelValues("self", "replayed").Inc()
		return ok(c, result.Appointment)
	}
	metrics.BookingsTotal.WithLabelValues("self", "created").Inc()
	return created(c, result.Appointment)
}

// List returns the caller's own appointments.
//
// @Summary      My appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=[]domain.Appointment}
// @Failure      401  {object}  Envelope
// @Router       /v1/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	list, err := h.service.GetAppointmentsForUser(c.Request().Context(), caller(c), "")
	if err != nil {
		return err
	}
	return ok(c, list)
}

// ListForUser returns the appointments of a given user.
//
// @Summary      Appointments of a user
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  Envelope{data=[]domain.Appointment}
// @Failure      401  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Router       /v1/users/{id}/appointments [get]
func (h *AppointmentHandler) ListForUser(c echo.Context) error {
	userID, err := requireParam(c, "id")
	if err != nil {
		return err
	}
	list, err := h.service.GetAppointmentsForUser(c.Request().Context(), caller(c), userID)
	if err != nil {
		return err
	}
	return ok(c, list)
}

// Get returns one appointment.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  Envelope{data=domain.Appointment}
// @Failure      401  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /v1/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	a, err := h.service.GetAppointmentByID(c.Request().Context(), caller(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, a)
}

// Update applies a partial edit.
//
// @Summary      Edit an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment id"
// @Param        body  body      updateAppointmentRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Appointment}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /v1/appointments/{id} [patch]
func (h *AppointmentHandler) Update(c echo.Context) error {
	var req updateAppointmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := h.service.UpdateAppointment(c.Request().Context(), caller(c), c.Param("id"), ports.AppointmentPatch{
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		UserPhone:        req.UserPhone,
		PractitionerName: req.DoctorName,
		Date:             req.Date,
		Time:             req.Time,
		ServiceType:      req.ServiceType,
		Notes:            req.Notes,
		Status:           req.Status,
	})
	if err != nil {
		countConflict("update", err)
		return err
	}
	if req.Status != nil {
		metrics.StatusTransitionsTotal.WithLabelValues(string(a.Status)).Inc()
	}
	return ok(c, a)
}

// Cancel frees the appointment's slot. Cancelling twice is not an error.
//
// @Summary      Cancel an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  Envelope{data=domain.Appointment}
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /v1/appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	a, err := h.service.CancelAppointment(c.Request().Context(), caller(c), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(domain.StatusCancelled)).Inc()
	return ok(c, a)
}

func countBooking(source string, err error) {
	outcome := "error"
	switch {
	case errors.Is(err, domain.ErrSlotUnavailable):
		outcome = "conflict"
	case errors.Is(err, domain.ErrValidation):
		outcome = "invalid"
	}
	metrics.BookingsTotal.WithLabelValues(source, outcome).Inc()
}

func countConflict(operation string, err error) {
	if errors.Is(err, domain.ErrSlotUnavailable) {
		metrics.SlotConflictsTotal.WithLabelValues(operation).Inc()
	}
}
