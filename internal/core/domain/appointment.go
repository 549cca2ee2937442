package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// HoldsSlot reports whether an appointment in this status occupies its slot.
// Cancelled appointments free the slot for reuse.
func (s AppointmentStatus) HoldsSlot() bool {
	return s != StatusCancelled
}

// ParseStatus converts raw input into an AppointmentStatus.
func ParseStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, raw)
	}
	return s, nil
}

// Slot is the (practitioner, date, time) tuple an appointment occupies.
type Slot struct {
	PractitionerName string
	Date             string
	Time             TimeOfDay
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s %s", s.PractitionerName, s.Date, s.Time.Label())
}

// Appointment is the core aggregate. Practitioner fields are denormalized
// copies of the static directory entry.
type Appointment struct {
	ID                    string            `json:"id"`
	UserID                string            `json:"user_id,omitempty"`
	UserName              string            `json:"user_name"`
	UserEmail             string            `json:"user_email"`
	UserPhone             string            `json:"user_phone,omitempty"`
	PractitionerName      string            `json:"doctor_name"`
	PractitionerSpecialty string            `json:"doctor_specialty"`
	Date                  string            `json:"appointment_date"`
	Time                  string            `json:"appointment_time"`
	TimeMinutes           int               `json:"-"`
	ServiceType           string            `json:"service_type"`
	Notes                 string            `json:"notes,omitempty"`
	Status                AppointmentStatus `json:"status"`
	CreatedByAdmin        bool              `json:"created_by_admin"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// Slot returns the slot this appointment occupies.
func (a *Appointment) Slot() Slot {
	return Slot{
		PractitionerName: a.PractitionerName,
		Date:             a.Date,
		Time:             TimeOfDay(a.TimeMinutes),
	}
}

// SetTime stores both the structured time and its canonical display label.
func (a *Appointment) SetTime(t TimeOfDay) {
	a.TimeMinutes = t.Minutes()
	a.Time = t.Label()
}
