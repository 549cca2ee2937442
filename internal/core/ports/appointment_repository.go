package ports

import (
	"context"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

// SlotQuery selects the non-cancelled appointments occupying a slot.
// ExcludeID, when set, leaves one appointment out of the scan (used by edits).
type SlotQuery struct {
	Slot      domain.Slot
	ExcludeID string
}

// AppointmentFilter carries the optional filters of a listing. Zero values
// mean "no filter".
type AppointmentFilter struct {
	UserID           string
	PractitionerName string
	Date             string
	Status           domain.AppointmentStatus
	Search           string // case-insensitive match on requester, practitioner or service
}

// AppointmentRepository is the persistence port for appointments.
type AppointmentRepository interface {
	// Create assigns ID and CreatedAt. A store-level slot conflict is
	// reported as domain.ErrSlotUnavailable.
	Create(ctx context.Context, a *domain.Appointment) error
	// FindByID retrieves an appointment. When ownerID is non-empty the lookup
	// is scoped to that owner and a foreign appointment is reported as
	// domain.ErrAppointmentNotFound.
	FindByID(ctx context.Context, id, ownerID string) (*domain.Appointment, error)
	// List returns matching appointments ordered by date, then time, ascending.
	List(ctx context.Context, filter AppointmentFilter) ([]*domain.Appointment, error)
	// CountInSlot counts non-cancelled appointments occupying the slot.
	CountInSlot(ctx context.Context, q SlotQuery) (int64, error)
	// Update overwrites the mutable fields of an existing appointment.
	Update(ctx context.Context, a *domain.Appointment) error
}
