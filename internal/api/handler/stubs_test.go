package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vedaclinic/booking-api/internal/api/middleware"
	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

var (
	patient = domain.Identity{Authenticated: true, UserID: "u1", Email: "alice@example.com"}
	staff   = domain.Identity{Authenticated: true, UserID: "u9", Email: "staff@example.com", IsAdmin: true}
)

// newRequest builds an echo context with the validator registered and, when
// id is non-nil, a resolved identity.
func newRequest(method, target, body string, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		middleware.SetIdentity(c, *id)
	}
	return c, rec
}

type stubIdentityProvider struct {
	signUpFn  func(ctx context.Context, email, password string, metadata map[string]string) (*ports.Session, *domain.User, error)
	signInFn  func(ctx context.Context, email, password string) (*ports.Session, *domain.User, error)
	signOutFn func(ctx context.Context, token string) error
	refreshFn func(ctx context.Context, token string) (*ports.Session, error)
}

func (s *stubIdentityProvider) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*ports.Session, *domain.User, error) {
	return s.signUpFn(ctx, email, password, metadata)
}

func (s *stubIdentityProvider) SignIn(ctx context.Context, email, password string) (*ports.Session, *domain.User, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubIdentityProvider) SignOut(ctx context.Context, token string) error {
	return s.signOutFn(ctx, token)
}

func (s *stubIdentityProvider) Refresh(ctx context.Context, token string) (*ports.Session, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubIdentityProvider) GetCurrentSession(ctx context.Context, token string) (*ports.Session, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubIdentityProvider) Subscribe(l ports.AuthListener) func() {
	return func() {}
}

// stubAppointmentService embeds the interface so tests only implement what
// they exercise; anything else panics.
type stubAppointmentService struct {
	ports.AppointmentService
	createFn      func(ctx context.Context, caller domain.Identity, in ports.BookingInput) (*ports.BookingResult, error)
	adminCreateFn func(ctx context.Context, caller domain.Identity, in ports.AdminBookingInput) (*domain.Appointment, error)
	forUserFn     func(ctx context.Context, caller domain.Identity, userID string) ([]*domain.Appointment, error)
	allFn         func(ctx context.Context, caller domain.Identity, filter ports.AppointmentFilter) ([]*domain.Appointment, error)
	getFn         func(ctx context.Context, caller domain.Identity, id string) (*domain.Appointment, error)
	statusFn      func(ctx context.Context, caller domain.Identity, id, status string) (*domain.Appointment, error)
	cancelFn      func(ctx context.Context, caller domain.Identity, id string) (*domain.Appointment, error)
	updateFn      func(ctx context.Context, caller domain.Identity, id string, patch ports.AppointmentPatch) (*domain.Appointment, error)
}

func (s *stubAppointmentService) CreateAppointment(ctx context.Context, caller domain.Identity, in ports.BookingInput) (*ports.BookingResult, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubAppointmentService) AdminCreateAppointment(ctx context.Context, caller domain.Identity, in ports.AdminBookingInput) (*domain.Appointment, error) {
	return s.adminCreateFn(ctx, caller, in)
}

func (s *stubAppointmentService) GetAppointmentsForUser(ctx context.Context, caller domain.Identity, userID string) ([]*domain.Appointment, error) {
	return s.forUserFn(ctx, caller, userID)
}

func (s *stubAppointmentService) GetAllAppointments(ctx context.Context, caller domain.Identity, filter ports.AppointmentFilter) ([]*domain.Appointment, error) {
	return s.allFn(ctx, caller, filter)
}

func (s *stubAppointmentService) GetAppointmentByID(ctx context.Context, caller domain.Identity, id string) (*domain.Appointment, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubAppointmentService) UpdateAppointmentStatus(ctx context.Context, caller domain.Identity, id, status string) (*domain.Appointment, error) {
	return s.statusFn(ctx, caller, id, status)
}

func (s *stubAppointmentService) CancelAppointment(ctx context.Context, caller domain.Identity, id string) (*domain.Appointment, error) {
	return s.cancelFn(ctx, caller, id)
}

func (s *stubAppointmentService) UpdateAppointment(ctx context.Context, caller domain.Identity, id string, patch ports.AppointmentPatch) (*domain.Appointment, error) {
	return s.updateFn(ctx, caller, id, patch)
}

type stubAdminService struct {
	promoteFn   func(ctx context.Context, caller domain.Identity, email string) (*domain.AdminPromotionRequest, error)
	usersFn     func(ctx context.Context, caller domain.Identity) ([]*domain.Profile, error)
	dashboardFn func(ctx context.Context, caller domain.Identity) (*ports.DashboardStats, error)
}

func (s *stubAdminService) PromoteToAdmin(ctx context.Context, caller domain.Identity, email string) (*domain.AdminPromotionRequest, error) {
	return s.promoteFn(ctx, caller, email)
}

func (s *stubAdminService) ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.Profile, error) {
	return s.usersFn(ctx, caller)
}

func (s *stubAdminService) Dashboard(ctx context.Context, caller domain.Identity) (*ports.DashboardStats, error) {
	return s.dashboardFn(ctx, caller)
}

type stubContactService struct {
	submitFn   func(ctx context.Context, in ports.ContactInput) (*domain.ContactMessage, error)
	listFn     func(ctx context.Context, caller domain.Identity, status string) ([]*domain.ContactMessage, error)
	markReadFn func(ctx context.Context, caller domain.Identity, id string) error
}

func (s *stubContactService) Submit(ctx context.Context, in ports.ContactInput) (*domain.ContactMessage, error) {
	return s.submitFn(ctx, in)
}

func (s *stubContactService) List(ctx context.Context, caller domain.Identity, status string) ([]*domain.ContactMessage, error) {
	return s.listFn(ctx, caller, status)
}

func (s *stubContactService) MarkRead(ctx context.Context, caller domain.Identity, id string) error {
	return s.markReadFn(ctx, caller, id)
}

func sampleAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:               "a1",
		UserID:           "u1",
		UserName:         "Alice",
		UserEmail:        "alice@example.com",
		PractitionerName: "Dr. Arjun Sharma",
		Date:             "2026-03-12",
		Time:             "10:00 AM",
		TimeMinutes:      600,
		ServiceType:      "Ayurvedic Consultation",
		Status:           domain.StatusScheduled,
	}
}
