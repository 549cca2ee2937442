package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

func TestAdminHandler_ListAppointments_Filters(t *testing.T) {
	stub := &stubAppointmentService{
		allFn: func(ctx context.Context, caller domain.Identity, filter ports.AppointmentFilter) ([]*domain.Appointment, error) {
			if !caller.IsAdmin {
				t.Fatalf("caller not forwarded: %+v", caller)
			}
			if filter.Status != domain.StatusScheduled || filter.Search != "alice" || filter.Date != "2026-03-12" {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return []*domain.Appointment{sampleAppointment()}, nil
		},
	}
	h := NewAdminHandler(stub, &stubAdminService{}, &stubContactService{})
	c, rec := newRequest(http.MethodGet, "/v1/admin/appointments?status=Scheduled&q=alice&date=2026-03-12", "", &staff)

	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminHandler_CreateAppointment(t *testing.T) {
	stub := &stubAppointmentService{
		adminCreateFn: func(ctx context.Context, caller domain.Identity, in ports.AdminBookingInput) (*domain.Appointment, error) {
			if in.UserEmail != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			a := sampleAppointment()
			a.CreatedByAdmin = true
			return a, nil
		},
	}
	h := NewAdminHandler(stub, &stubAdminService{}, &stubContactService{})
	c, rec := newRequest(http.MethodPost, "/v1/admin/appointments", bookingBody, &staff)

	if err := h.CreateAppointment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if data := decode(t, rec.Body.Bytes())["data"].(map[string]any); data["created_by_admin"] != true {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestAdminHandler_UpdateStatus(t *testing.T) {
	stub := &stubAppointmentService{
		statusFn: func(ctx context.Context, caller domain.Identity, id, status string) (*domain.Appointment, error) {
			if status == "scheduled" {
				return nil, domain.ErrSlotUnavailable
			}
			a := sampleAppointment()
			a.Status = domain.AppointmentStatus(status)
			return a, nil
		},
	}
	h := NewAdminHandler(stub, &stubAdminService{}, &stubContactService{})

	c, rec := newRequest(http.MethodPut, "/v1/admin/appointments/a1/status", `{"status":"completed"}`, &staff)
	c.SetParamNames("id")
	c.SetParamValues("a1")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if data := decode(t, rec.Body.Bytes())["data"].(map[string]any); data["status"] != "completed" {
		t.Fatalf("unexpected payload: %+v", data)
	}

	c, _ = newRequest(http.MethodPut, "/v1/admin/appointments/a1/status", `{"status":"scheduled"}`, &staff)
	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}

	c, _ = newRequest(http.MethodPut, "/v1/admin/appointments/a1/status", `{}`, &staff)
	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminHandler_DashboardAndPromote(t *testing.T) {
	admin := &stubAdminService{
		dashboardFn: func(ctx context.Context, caller domain.Identity) (*ports.DashboardStats, error) {
			return &ports.DashboardStats{Total: 3, Scheduled: 2, Cancelled: 1}, nil
		},
		promoteFn: func(ctx context.Context, caller domain.Identity, email string) (*domain.AdminPromotionRequest, error) {
			return &domain.AdminPromotionRequest{TargetEmail: email, RequestedBy: caller.UserID, Status: domain.PromotionStatusApproved}, nil
		},
	}
	h := NewAdminHandler(&stubAppointmentService{}, admin, &stubContactService{})

	c, rec := newRequest(http.MethodGet, "/v1/admin/dashboard", "", &staff)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if data := decode(t, rec.Body.Bytes())["data"].(map[string]any); data["total"] != float64(3) {
		t.Fatalf("unexpected payload: %+v", data)
	}

	c, rec = newRequest(http.MethodPost, "/v1/admin/promotions", `{"email":"bob@example.com"}`, &staff)
	if err := h.Promote(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAdminHandler_Contact(t *testing.T) {
	contact := &stubContactService{
		listFn: func(ctx context.Context, caller domain.Identity, status string) ([]*domain.ContactMessage, error) {
			if status != domain.ContactStatusUnread {
				t.Fatalf("unexpected status %q", status)
			}
			return []*domain.ContactMessage{{ID: "m1", Status: status}}, nil
		},
		markReadFn: func(ctx context.Context, caller domain.Identity, id string) error {
			if id != "m1" {
				return domain.ErrContactMessageNotFound
			}
			return nil
		},
	}
	h := NewAdminHandler(&stubAppointmentService{}, &stubAdminService{}, contact)

	c, _ := newRequest(http.MethodGet, "/v1/admin/contact?status=unread", "", &staff)
	if err := h.ContactMessages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	c, _ = newRequest(http.MethodPost, "/v1/admin/contact/m2/read", "", &staff)
	c.SetParamNames("id")
	c.SetParamValues("m2")
	if err := h.MarkContactRead(c); !errors.Is(err, domain.ErrContactMessageNotFound) {
		t.Fatalf("expected ErrContactMessageNotFound, got %v", err)
	}
}

func TestContactHandler_Submit(t *testing.T) {
	stub := &stubContactService{
		submitFn: func(ctx context.Context, in ports.ContactInput) (*domain.ContactMessage, error) {
			return &domain.ContactMessage{ID: "m1", Name: in.Name, Email: in.Email, Message: in.Message, Status: domain.ContactStatusUnread}, nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newRequest(http.MethodPost, "/v1/contact", `{"name":"Ravi","email":"ravi@example.com","message":"Hello"}`, nil)
	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newRequest(http.MethodPost, "/v1/contact", `{"name":"Ravi"}`, nil)
	if err := h.Submit(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
