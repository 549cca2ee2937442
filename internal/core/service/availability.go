package service

import (
	"context"
	"fmt"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

// AvailabilityChecker decides whether a slot is free. Only non-cancelled
// appointments occupy a slot.
type AvailabilityChecker struct {
	repo ports.AppointmentRepository
}

func NewAvailabilityChecker(repo ports.AppointmentRepository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

// IsAvailable reports whether no non-cancelled appointment other than
// excludeID occupies slot.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, slot domain.Slot, excludeID string) (bool, error) {
	n, err := c.repo.CountInSlot(ctx, ports.SlotQuery{Slot: slot, ExcludeID: excludeID})
	if err != nil {
		return false, fmt.Errorf("availability check: %w", err)
	}
	return n == 0, nil
}

// OpenSlots returns the practitioner's daily slot grid minus occupied slots.
func (c *AvailabilityChecker) OpenSlots(ctx context.Context, practitioner domain.Practitioner, date string) ([]domain.TimeOfDay, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}

	booked, err := c.repo.List(ctx, ports.AppointmentFilter{
		PractitionerName: practitioner.Name,
		Date:             date,
	})
	if err != nil {
		return nil, fmt.Errorf("open slots: %w", err)
	}

	taken := make(map[domain.TimeOfDay]struct{}, len(booked))
	for _, a := range booked {
		if a.Status.HoldsSlot() {
			taken[domain.TimeOfDay(a.TimeMinutes)] = struct{}{}
		}
	}

	open := make([]domain.TimeOfDay, 0, len(practitioner.DailySlots()))
	for _, t := range practitioner.DailySlots() {
		if _, ok := taken[t]; !ok {
			open = append(open, t)
		}
	}
	return open, nil
}
