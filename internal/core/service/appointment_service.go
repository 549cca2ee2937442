package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

// AppointmentConfig tunes date rules of the lifecycle manager.
type AppointmentConfig struct {
	// Location is the clinic timezone used to decide what "today" is.
	Location *time.Location
	// HorizonDays limits self-service bookings to today plus HorizonDays-1.
	// Zero disables the limit.
	HorizonDays int
	// Now is overridable in tests.
	Now func() time.Time
}

// AppointmentService owns creation, status transitions and edit/cancel
// authorization of appointments.
type AppointmentService struct {
	repo         ports.AppointmentRepository
	profiles     ports.ProfileRepository
	directory    ports.Directory
	availability ports.AvailabilityChecker
	idempotency  ports.IdempotencyStore
	cfg          AppointmentConfig
	logger       zerolog.Logger
}

// NewAppointmentService wires the lifecycle manager. idempotency may be nil.
func NewAppointmentService(
	repo ports.AppointmentRepository,
	profiles ports.ProfileRepository,
	directory ports.Directory,
	availability ports.AvailabilityChecker,
	idempotency ports.IdempotencyStore,
	cfg AppointmentConfig,
	logger zerolog.Logger,
) *AppointmentService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AppointmentService{
		repo:         repo,
		profiles:     profiles,
		directory:    directory,
		availability: availability,
		idempotency:  idempotency,
		cfg:          cfg,
		logger:       logger,
	}
}

// bookingFields is the validated common part of self-service and admin bookings.
type bookingFields struct {
	userName, userEmail, userPhone string
	practitioner, date, time       string
	serviceType, notes             string
}

// CreateAppointment books a slot for the authenticated caller. A conflict is
// reported as domain.ErrSlotUnavailable and leaves no trace in the store.
func (s *AppointmentService) CreateAppointment(ctx context.Context, caller domain.Identity, in ports.BookingInput) (*ports.BookingResult, error) {
	if !caller.Authenticated {
		return nil, domain.ErrUnauthenticated
	}

	if in.IdempotencyKey != "" {
		if res, ok := s.replay(ctx, caller, in.IdempotencyKey); ok {
			return res, nil
		}
	}

	email := in.UserEmail
	if strings.TrimSpace(email) == "" {
		email = caller.Email
	}
	appt, err := s.buildAppointment(bookingFields{
		userName:     in.UserName,
		userEmail:    email,
		userPhone:    in.UserPhone,
		practitioner: in.PractitionerName,
		date:         in.Date,
		time:         in.Time,
		serviceType:  in.ServiceType,
		notes:        in.Notes,
	}, true)
	if err != nil {
		return nil, err
	}
	appt.UserID = caller.UserID

	if err := s.book(ctx, appt); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, caller.UserID, in.IdempotencyKey, appt.ID); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", appt.ID).Msg("failed to store idempotency key")
		}
	}

	return &ports.BookingResult{Appointment: appt}, nil
}

// AdminCreateAppointment books on behalf of a requester. The owning user is
// resolved by profile email when one exists; otherwise the record keeps only
// the denormalized contact details.
func (s *AppointmentService) AdminCreateAppointment(ctx context.Context, caller domain.Identity, in ports.AdminBookingInput) (*domain.Appointment, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	appt, err := s.buildAppointment(bookingFields{
		userName:     in.UserName,
		userEmail:    in.UserEmail,
		userPhone:    in.UserPhone,
		practitioner: in.PractitionerName,
		date:         in.Date,
		time:         in.Time,
		serviceType:  in.ServiceType,
		notes:        in.Notes,
	}, false)
	if err != nil {
		return nil, err
	}
	appt.CreatedByAdmin = true

	profile, err := s.profiles.FindByEmail(ctx, appt.UserEmail)
	switch {
	case err == nil:
		appt.UserID = profile.UserID
	case errors.Is(err, domain.ErrProfileNotFound):
		s.logger.Debug().Str("email", appt.UserEmail).Msg("no matching profile, booking without owner")
	default:
		return nil, fmt.Errorf("resolve requester profile: %w", err)
	}

	if err := s.book(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// GetAppointmentsForUser lists a user's appointments by date. Callers may
// only list their own unless they are admins.
func (s *AppointmentService) GetAppointmentsForUser(ctx context.Context, caller domain.Identity, userID string) ([]*domain.Appointment, error) {
	if !caller.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	if userID == "" {
		userID = caller.UserID
	}
	if !caller.IsAdmin && caller.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, ports.AppointmentFilter{UserID: userID})
}

// GetAllAppointments lists every appointment regardless of owner.
func (s *AppointmentService) GetAllAppointments(ctx context.Context, caller domain.Identity, filter ports.AppointmentFilter) ([]*domain.Appointment, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

// GetAppointmentByID returns one appointment. Non-admins only see their own;
// a foreign id is indistinguishable from a missing one.
func (s *AppointmentService) GetAppointmentByID(ctx context.Context, caller domain.Identity, id string) (*domain.Appointment, error) {
	if !caller.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	owner := ""
	if !caller.IsAdmin {
		owner = caller.UserID
	}
	return s.repo.FindByID(ctx, id, owner)
}

// UpdateAppointmentStatus sets any status on any appointment (admin only).
// Leaving "cancelled" re-occupies the slot and is therefore re-checked.
func (s *AppointmentService) UpdateAppointmentStatus(ctx context.Context, caller domain.Identity, id string, status string) (*domain.Appointment, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	appt, err := s.repo.FindByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if appt.Status == next {
		return appt, nil
	}

	updated := *appt
	updated.Status = next
	if err := s.ensureSlot(ctx, appt, &updated); err != nil {
		return nil, err
	}
	if err := s.save(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", id).
		Str("from", string(appt.Status)).
		Str("to", string(next)).
		Msg("appointment status changed")
	return &updated, nil
}

// CancelAppointment marks an appointment cancelled. Owners may cancel their
// own; admins may cancel any. Cancelling twice is a no-op.
func (s *AppointmentService) CancelAppointment(ctx context.Context, caller domain.Identity, id string) (*domain.Appointment, error) {
	appt, err := s.loadForMutation(ctx, caller, id, "cancel")
	if err != nil {
		return nil, err
	}
	if appt.Status == domain.StatusCancelled {
		return appt, nil
	}

	updated := *appt
	updated.Status = domain.StatusCancelled
	if err := s.save(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", id).Str("user_id", caller.UserID).Msg("appointment cancelled")
	return &updated, nil
}

// UpdateAppointment applies a partial edit. When the slot changes the new
// slot is checked excluding the appointment itself; on any failure the
// stored record is left untouched.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, caller domain.Identity, id string, patch ports.AppointmentPatch) (*domain.Appointment, error) {
	appt, err := s.loadForMutation(ctx, caller, id, "update")
	if err != nil {
		return nil, err
	}

	updated := *appt
	if err := s.applyPatch(&updated, patch, !caller.IsAdmin); err != nil {
		return nil, err
	}
	if err := s.ensureSlot(ctx, appt, &updated); err != nil {
		return nil, err
	}
	if err := s.save(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", id).Str("user_id", caller.UserID).Msg("appointment updated")
	return &updated, nil
}

// ---------------------------------------------------------------------------
// internals
// ---------------------------------------------------------------------------

func requireAdmin(caller domain.Identity) error {
	if !caller.Authenticated {
		return domain.ErrUnauthenticated
	}
	if !caller.IsAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// loadForMutation fetches an appointment and checks the caller may change it.
func (s *AppointmentService) loadForMutation(ctx context.Context, caller domain.Identity, id, action string) (*domain.Appointment, error) {
	if !caller.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	appt, err := s.repo.FindByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && !caller.Owns(appt) {
		return nil, fmt.Errorf("%w to %s this appointment", domain.ErrForbidden, action)
	}
	return appt, nil
}

func (s *AppointmentService) replay(ctx context.Context, caller domain.Identity, key string) (*ports.BookingResult, bool) {
	if s.idempotency == nil {
		return nil, false
	}
	id, ok, err := s.idempotency.Lookup(ctx, caller.UserID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, booking anyway")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	appt, err := s.repo.FindByID(ctx, id, caller.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotent replay target missing")
		return nil, false
	}
	s.logger.Info().Str("idempotency_key", key).Str("appointment_id", id).Msg("idempotent replay")
	return &ports.BookingResult{Appointment: appt, AlreadyExisted: true}, true
}

// book runs the availability check and inserts. The store may still reject
// the insert when a concurrent booking wins the race; that surfaces as the
// same ErrSlotUnavailable.
func (s *AppointmentService) book(ctx context.Context, appt *domain.Appointment) error {
	slot := appt.Slot()
	ok, err := s.availability.IsAvailable(ctx, slot, "")
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info().Str("slot", slot.String()).Msg("booking rejected, slot taken")
		return domain.ErrSlotUnavailable
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			s.logger.Warn().Str("slot", slot.String()).Msg("booking rejected by store uniqueness constraint")
		} else {
			s.logger.Error().Err(err).Str("slot", slot.String()).Msg("failed to create appointment")
		}
		return err
	}

	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("user_id", appt.UserID).
		Str("slot", slot.String()).
		Bool("created_by_admin", appt.CreatedByAdmin).
		Msg("appointment booked")
	return nil
}

// ensureSlot re-checks availability when an edit moves the appointment to a
// different slot or brings it back from cancelled.
func (s *AppointmentService) ensureSlot(ctx context.Context, before, after *domain.Appointment) error {
	if !after.Status.HoldsSlot() {
		return nil
	}
	moved := before.Slot() != after.Slot()
	reopened := !before.Status.HoldsSlot()
	if !moved && !reopened {
		return nil
	}
	ok, err := s.availability.IsAvailable(ctx, after.Slot(), after.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSlotUnavailable
	}
	return nil
}

func (s *AppointmentService) save(ctx context.Context, appt *domain.Appointment) error {
	appt.UpdatedAt = s.cfg.Now().UTC()
	return s.repo.Update(ctx, appt)
}

func (s *AppointmentService) buildAppointment(f bookingFields, selfService bool) (*domain.Appointment, error) {
	if err := requireField("user_name", f.userName); err != nil {
		return nil, err
	}
	if err := validateEmail(f.userEmail); err != nil {
		return nil, err
	}
	if err := validatePhone(f.userPhone); err != nil {
		return nil, err
	}
	practitioner, err := s.lookupPractitioner(f.practitioner)
	if err != nil {
		return nil, err
	}
	service, err := s.lookupService(f.serviceType)
	if err != nil {
		return nil, err
	}
	date, err := s.checkDate(f.date, selfService)
	if err != nil {
		return nil, err
	}
	at, err := domain.ParseTimeLabel(f.time)
	if err != nil {
		return nil, err
	}

	appt := &domain.Appointment{
		UserName:              strings.TrimSpace(f.userName),
		UserEmail:             domain.NormalizeEmail(f.userEmail),
		UserPhone:             strings.TrimSpace(f.userPhone),
		PractitionerName:      practitioner.Name,
		PractitionerSpecialty: practitioner.Specialty,
		Date:                  date,
		ServiceType:           service.Name,
		Notes:                 strings.TrimSpace(f.notes),
		Status:                domain.StatusScheduled,
	}
	appt.SetTime(at)
	return appt, nil
}

func (s *AppointmentService) applyPatch(a *domain.Appointment, p ports.AppointmentPatch, selfService bool) error {
	if p.UserName != nil {
		if err := requireField("user_name", *p.UserName); err != nil {
			return err
		}
		a.UserName = strings.TrimSpace(*p.UserName)
	}
	if p.UserEmail != nil {
		if err := validateEmail(*p.UserEmail); err != nil {
			return err
		}
		a.UserEmail = domain.NormalizeEmail(*p.UserEmail)
	}
	if p.UserPhone != nil {
		if err := validatePhone(*p.UserPhone); err != nil {
			return err
		}
		a.UserPhone = strings.TrimSpace(*p.UserPhone)
	}
	if p.PractitionerName != nil {
		practitioner, err := s.lookupPractitioner(*p.PractitionerName)
		if err != nil {
			return err
		}
		a.PractitionerName = practitioner.Name
		a.PractitionerSpecialty = practitioner.Specialty
	}
	if p.Date != nil && strings.TrimSpace(*p.Date) != a.Date {
		date, err := s.checkDate(*p.Date, selfService)
		if err != nil {
			return err
		}
		a.Date = date
	}
	if p.Time != nil {
		at, err := domain.ParseTimeLabel(*p.Time)
		if err != nil {
			return err
		}
		a.SetTime(at)
	}
	if p.ServiceType != nil {
		service, err := s.lookupService(*p.ServiceType)
		if err != nil {
			return err
		}
		a.ServiceType = service.Name
	}
	if p.Notes != nil {
		a.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.Status != nil {
		status, err := domain.ParseStatus(*p.Status)
		if err != nil {
			return err
		}
		// Only staff may reopen a cancelled appointment.
		if selfService && a.Status == domain.StatusCancelled && status != domain.StatusCancelled {
			return fmt.Errorf("%w to reopen a cancelled appointment", domain.ErrForbidden)
		}
		a.Status = status
	}
	return nil
}

func (s *AppointmentService) lookupPractitioner(name string) (domain.Practitioner, error) {
	if err := requireField("doctor_name", name); err != nil {
		return domain.Practitioner{}, err
	}
	p, ok := s.directory.PractitionerByName(strings.TrimSpace(name))
	if !ok {
		return domain.Practitioner{}, fmt.Errorf("%w: unknown practitioner %q", domain.ErrValidation, name)
	}
	return p, nil
}

func (s *AppointmentService) lookupService(name string) (domain.Service, error) {
	if err := requireField("service_type", name); err != nil {
		return domain.Service{}, err
	}
	svc, ok := s.directory.ServiceByName(strings.TrimSpace(name))
	if !ok {
		return domain.Service{}, fmt.Errorf("%w: unknown service type %q", domain.ErrValidation, name)
	}
	return svc, nil
}

// checkDate rejects past dates and, for self-service bookings, dates beyond
// the booking horizon.
func (s *AppointmentService) checkDate(raw string, enforceHorizon bool) (string, error) {
	d, err := domain.ParseDate(raw)
	if err != nil {
		return "", err
	}
	today := civilDay(s.cfg.Now(), s.cfg.Location)
	if d.Before(today) {
		return "", fmt.Errorf("%w: date must be today or later", domain.ErrValidation)
	}
	if enforceHorizon && s.cfg.HorizonDays > 0 && d.After(today.AddDate(0, 0, s.cfg.HorizonDays-1)) {
		return "", fmt.Errorf("%w: date must be within %d days", domain.ErrValidation, s.cfg.HorizonDays)
	}
	return d.Format(domain.DateLayout), nil
}
