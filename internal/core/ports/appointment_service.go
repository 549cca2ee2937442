package ports

import (
	"context"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

// BookingInput is a self-service booking request.
type BookingInput struct {
	UserName         string
	UserEmail        string
	UserPhone        string
	PractitionerName string
	Date             string
	Time             string
	ServiceType      string
	Notes            string
	IdempotencyKey   string
}

// AdminBookingInput is a booking entered by staff on behalf of a requester.
type AdminBookingInput struct {
	UserName         string
	UserEmail        string
	UserPhone        string
	PractitionerName string
	Date             string
	Time             string
	ServiceType      string
	Notes            string
}

// AppointmentPatch is a partial edit; nil fields are left unchanged.
type AppointmentPatch struct {
	UserName         *string
	UserEmail        *string
	UserPhone        *string
	PractitionerName *string
	Date             *string
	Time             *string
	ServiceType      *string
	Notes            *string
	Status           *string
}

// BookingResult is returned by CreateAppointment.
type BookingResult struct {
	Appointment *domain.Appointment
	// AlreadyExisted is true when the idempotency key matched an earlier booking.
	AlreadyExisted bool
}

// AppointmentService is the appointment lifecycle use-case surface.
type AppointmentService interface {
	CreateAppointment(ctx context.Context, caller domain.Identity, in BookingInput) (*BookingResult, error)
	AdminCreateAppointment(ctx context.Context, caller domain.Identity, in AdminBookingInput) (*domain.Appointment, error)
	GetAppointmentsForUser(ctx context.Context, caller domain.Identity, userID string) ([]*domain.Appointment, error)
	GetAllAppointments(ctx context.Context, caller domain.Identity, filter AppointmentFilter) ([]*domain.Appointment, error)
	GetAppointmentByID(ctx context.Context, caller domain.Identity, id string) (*domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, caller domain.Identity, id string, status string) (*domain.Appointment, error)
	CancelAppointment(ctx context.Context, caller domain.Identity, id string) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, caller domain.Identity, id string, patch AppointmentPatch) (*domain.Appointment, error)
}

// AvailabilityChecker answers whether a slot is free.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, slot domain.Slot, excludeID string) (bool, error)
	OpenSlots(ctx context.Context, practitioner domain.Practitioner, date string) ([]domain.TimeOfDay, error)
}

// IdempotencyStore remembers which appointment a client-supplied key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (string, bool, error)
	Remember(ctx context.Context, scope, key, appointmentID string) error
}
