package ports

import (
	"context"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

// DashboardStats summarises the appointment book for staff.
type DashboardStats struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Today     int `json:"today"`
}

// AdminService groups staff-only operations outside the appointment lifecycle.
type AdminService interface {
	PromoteToAdmin(ctx context.Context, caller domain.Identity, email string) (*domain.AdminPromotionRequest, error)
	ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.Profile, error)
	Dashboard(ctx context.Context, caller domain.Identity) (*DashboardStats, error)
}

// ContactRepository persists contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	List(ctx context.Context, status string) ([]*domain.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ContactService handles visitor enquiries.
type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error)
	List(ctx context.Context, caller domain.Identity, status string) ([]*domain.ContactMessage, error)
	MarkRead(ctx context.Context, caller domain.Identity, id string) error
}
