package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

// AdminService covers staff operations that sit outside the appointment
// lifecycle: role grants, the user list and dashboard counters.
type AdminService struct {
	appointments ports.AppointmentRepository
	profiles     ports.ProfileRepository
	promotions   ports.PromotionRepository
	location     *time.Location
	now          func() time.Time
	logger       zerolog.Logger
}

func NewAdminService(
	appointments ports.AppointmentRepository,
	profiles ports.ProfileRepository,
	promotions ports.PromotionRepository,
	location *time.Location,
	logger zerolog.Logger,
) *AdminService {
	if location == nil {
		location = time.UTC
	}
	return &AdminService{
		appointments: appointments,
		profiles:     profiles,
		promotions:   promotions,
		location:     location,
		now:          time.Now,
		logger:       logger,
	}
}

// PromoteToAdmin appends an approved promotion for email. It takes effect
// the next time that account signs in.
func (s *AdminService) PromoteToAdmin(ctx context.Context, caller domain.Identity, email string) (*domain.AdminPromotionRequest, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	p := &domain.AdminPromotionRequest{
		RequestedBy: caller.UserID,
		TargetEmail: domain.NormalizeEmail(email),
		Status:      domain.PromotionStatusApproved,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.promotions.Append(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("requested_by", caller.UserID).
		Str("target_email", p.TargetEmail).
		Msg("admin promotion recorded")
	return p, nil
}

func (s *AdminService) ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.Profile, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.profiles.List(ctx)
}

// Dashboard counts appointments by status plus those falling on today's date.
func (s *AdminService) Dashboard(ctx context.Context, caller domain.Identity) (*ports.DashboardStats, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	all, err := s.appointments.List(ctx, ports.AppointmentFilter{})
	if err != nil {
		return nil, err
	}

	today := civilDay(s.now(), s.location).Format(domain.DateLayout)
	stats := &ports.DashboardStats{Total: len(all)}
	for _, a := range all {
		switch a.Status {
		case domain.StatusScheduled:
			stats.Scheduled++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusCancelled:
			stats.Cancelled++
		}
		if a.Date == today {
			stats.Today++
		}
	}
	return stats, nil
}
