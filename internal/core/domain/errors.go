package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("not authorized")
	ErrValidation      = errors.New("validation failed")

	ErrSlotUnavailable     = errors.New("slot unavailable: this time slot is already booked, please select another time")
	ErrAppointmentNotFound = errors.New("appointment not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrSessionNotFound    = errors.New("session not found")

	ErrContactMessageNotFound = errors.New("contact message not found")
)
