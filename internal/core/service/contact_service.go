package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

type ContactService struct {
	repo   ports.ContactRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewContactService(repo ports.ContactRepository, logger zerolog.Logger) *ContactService {
	return &ContactService{repo: repo, now: time.Now, logger: logger}
}

// Submit stores an enquiry. Anyone may submit; no session is required.
func (s *ContactService) Submit(ctx context.Context, in ports.ContactInput) (*domain.ContactMessage, error) {
	if err := requireField("name", in.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePhone(in.Phone); err != nil {
		return nil, err
	}
	if err := requireField("message", in.Message); err != nil {
		return nil, err
	}

	m := &domain.ContactMessage{
		Name:      strings.TrimSpace(in.Name),
		Email:     domain.NormalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Message:   strings.TrimSpace(in.Message),
		Status:    domain.ContactStatusUnread,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info().Str("contact_id", m.ID).Msg("contact message received")
	return m, nil
}

func (s *ContactService) List(ctx context.Context, caller domain.Identity, status string) ([]*domain.ContactMessage, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	switch status {
	case "", domain.ContactStatusUnread, domain.ContactStatusRead:
	default:
		return nil, fmt.Errorf("%w: unknown contact status %q", domain.ErrValidation, status)
	}
	return s.repo.List(ctx, status)
}

func (s *ContactService) MarkRead(ctx context.Context, caller domain.Identity, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id)
}
