package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vedaclinic/booking-api/internal/api/metrics"
	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

// AdminHandler serves the staff console. The router guards every route with
// RequireAdmin; the services re-check the role regardless.
type AdminHandler struct {
	appointments ports.AppointmentService
	admin        ports.AdminService
	contact      ports.ContactService
}

func NewAdminHandler(appointments ports.AppointmentService, admin ports.AdminService, contact ports.ContactService) *AdminHandler {
	return &AdminHandler{appointments: appointments, admin: admin, contact: contact}
}

// ListAppointments returns every appointment, optionally filtered.
//
// @Summary      All appointments
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "scheduled, completed or cancelled"
// @Param        q       query     string  false  "Search requester, practitioner or service"
// @Param        doctor  query     string  false  "Practitioner name"
// @Param        date    query     string  false  "Date (YYYY-MM-DD)"
// @Success      200     {object}  Envelope{data=[]domain.Appointment}
// @Failure      400     {object}  Envelope
// @Failure      403     {object}  Envelope
// @Router       /v1/admin/appointments [get]
func (h *AdminHandler) ListAppointments(c echo.Context) error {
	list, err := h.appointments.GetAllAppointments(c.Request().Context(), caller(c), ports.AppointmentFilter{
		Status:           domain.AppointmentStatus(strings.ToLower(strings.TrimSpace(c.QueryParam("status")))),
		Search:           c.QueryParam("q"),
		PractitionerName: c.QueryParam("doctor"),
		Date:             c.QueryParam("date"),
	})
	if err != nil {
		return err
	}
	return ok(c, list)
}

// CreateAppointment books on behalf of a requester.
//
// @Summary      Book for a requester
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookingRequest  true  "Booking details"
// @Success      201   {object}  Envelope{data=domain.Appointment}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /v1/admin/appointments [post]
func (h *AdminHandler) CreateAppointment(c echo.Context) error {
	var req bookingRequest
	if err := bind(c, &req); err != nil {
		metrics.BookingsTotal.WithLabelValues("admin", "invalid").Inc()
		return err
	}

	a, err := h.appointments.AdminCreateAppointment(c.Request().Context(), caller(c), ports.AdminBookingInput{
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		UserPhone:        req.UserPhone,
		PractitionerName: req.DoctorName,
		Date:             req.Date,
		Time:             req.Time,
		ServiceType:      req.ServiceType,
		Notes:            req.Notes,
	})
	if err != nil {
		countBooking("admin", err)
		countConflict("create", err)
		return err
	}
	metrics.BookingsTotal.WithLabelValues("admin", "created").Inc()
	return created(c, a)
}

// UpdateStatus sets an appointment's status.
//
// @Summary      Change appointment status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Appointment id"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  Envelope{data=domain.Appointment}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /v1/admin/appointments/{id}/status [put]
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := h.appointments.UpdateAppointmentStatus(c.Request().Context(), caller(c), c.Param("id"), req.Status)
	if err != nil {
		countConflict("status", err)
		return err
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(a.Status)).Inc()
	return ok(c, a)
}

// Dashboard returns appointment counts.
//
// @Summary      Dashboard counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=ports.DashboardStats}
// @Router       /v1/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.admin.Dashboard(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return ok(c, stats)
}

// Users lists registered profiles.
//
// @Summary      Registered users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=[]domain.Profile}
// @Router       /v1/admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.admin.ListUsers(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return ok(c, users)
}

// Promote grants the admin role to an email from its next sign-in.
//
// @Summary      Promote to admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      promotionRequest  true  "Target email"
// @Success      201   {object}  Envelope{data=domain.AdminPromotionRequest}
// @Failure      400   {object}  Envelope
// @Router       /v1/admin/promotions [post]
func (h *AdminHandler) Promote(c echo.Context) error {
	var req promotionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.admin.PromoteToAdmin(c.Request().Context(), caller(c), req.Email)
	if err != nil {
		return err
	}
	return created(c, p)
}

// ContactMessages lists contact form submissions.
//
// @Summary      Contact messages
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "unread or read"
// @Success      200     {object}  Envelope{data=[]domain.ContactMessage}
// @Router       /v1/admin/contact [get]
func (h *AdminHandler) ContactMessages(c echo.Context) error {
	list, err := h.contact.List(c.Request().Context(), caller(c), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return ok(c, list)
}

// MarkContactRead flags a contact message as read.
//
// @Summary      Mark a contact message read
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /v1/admin/contact/{id}/read [post]
func (h *AdminHandler) MarkContactRead(c echo.Context) error {
	if err := h.contact.MarkRead(c.Request().Context(), caller(c), c.Param("id")); err != nil {
		return err
	}
	return ok(c, nil)
}
