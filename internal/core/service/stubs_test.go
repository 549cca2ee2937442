package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory appointment repository
// ---------------------------------------------------------------------------

// stubAppointmentRepo mimics the Mongo repository including its partial
// unique index on held slots.
type stubAppointmentRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Appointment
	seq       int
	createErr error
	countErr  error
	updates   int
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: make(map[string]*domain.Appointment)}
}

func (r *stubAppointmentRepo) slotTaken(slot domain.Slot, excludeID string) bool {
	for id, a := range r.byID {
		if id == excludeID || !a.Status.HoldsSlot() {
			continue
		}
		if a.Slot() == slot {
			return true
		}
	}
	return false
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if a.Status.HoldsSlot() && r.slotTaken(a.Slot(), "") {
		return domain.ErrSlotUnavailable
	}
	r.seq++
	a.ID = fmt.Sprintf("appt-%d", r.seq)
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id, ownerID string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || (ownerID != "" && a.UserID != ownerID) {
		return nil, domain.ErrAppointmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAppointmentRepo) List(_ context.Context, f ports.AppointmentFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range r.byID {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.PractitionerName != "" && a.PractitionerName != f.PractitionerName {
			continue
		}
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(a.UserName), q) &&
				!strings.Contains(strings.ToLower(a.PractitionerName), q) &&
				!strings.Contains(strings.ToLower(a.ServiceType), q) {
				continue
			}
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeMinutes < out[j].TimeMinutes
	})
	return out, nil
}

func (r *stubAppointmentRepo) CountInSlot(_ context.Context, q ports.SlotQuery) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for id, a := range r.byID {
		if id != q.ExcludeID && a.Status.HoldsSlot() && a.Slot() == q.Slot {
			n++
		}
	}
	return n, nil
}

func (r *stubAppointmentRepo) Update(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrAppointmentNotFound
	}
	if a.Status.HoldsSlot() && r.slotTaken(a.Slot(), a.ID) {
		return domain.ErrSlotUnavailable
	}
	r.updates++
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAppointmentRepo) stored(id string) domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.byID[id]
}

// ---------------------------------------------------------------------------
// Directory
// ---------------------------------------------------------------------------

type stubDirectory struct {
	practitioners []domain.Practitioner
	services      []domain.Service
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		practitioners: []domain.Practitioner{
			{ID: 1, Name: "Dr. Arjun Sharma", Specialty: "Ayurvedic Physician"},
			{ID: 2, Name: "Dr. Priya Patel", Specialty: "Panchakarma Specialist"},
		},
		services: []domain.Service{
			{Slug: "consultation", Name: "Ayurvedic Consultation"},
			{Slug: "panchakarma", Name: "Panchakarma Therapy"},
		},
	}
}

func (d *stubDirectory) ListPractitioners() []domain.Practitioner { return d.practitioners }
func (d *stubDirectory) ListServices() []domain.Service           { return d.services }

func (d *stubDirectory) ListServiceTypes() []string {
	out := make([]string, 0, len(d.services))
	for _, s := range d.services {
		out = append(out, s.Name)
	}
	return out
}

func (d *stubDirectory) PractitionerByName(name string) (domain.Practitioner, bool) {
	for _, p := range d.practitioners {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Practitioner{}, false
}

func (d *stubDirectory) PractitionerByID(id int) (domain.Practitioner, bool) {
	for _, p := range d.practitioners {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Practitioner{}, false
}

func (d *stubDirectory) ServiceByName(name string) (domain.Service, bool) {
	for _, s := range d.services {
		if s.Name == name {
			return s, true
		}
	}
	return domain.Service{}, false
}

// ---------------------------------------------------------------------------
// Identity stubs
// ---------------------------------------------------------------------------

type stubAuthRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubProfileRepo struct {
	mu       sync.Mutex
	byEmail  map[string]*domain.Profile
	findErr  error
	createEr error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byEmail: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createEr != nil {
		return r.createEr
	}
	clone := *p
	r.byEmail[p.Email] = &clone
	return nil
}

func (r *stubProfileRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) List(_ context.Context) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Profile, 0, len(r.byEmail))
	for _, p := range r.byEmail {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

type stubPromotionRepo struct {
	mu      sync.Mutex
	entries []domain.AdminPromotionRequest
	findErr error
	lookups int
}

func (r *stubPromotionRepo) Append(_ context.Context, p *domain.AdminPromotionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = fmt.Sprintf("promo-%d", len(r.entries)+1)
	r.entries = append(r.entries, *p)
	return nil
}

func (r *stubPromotionRepo) FindByEmail(_ context.Context, email string) ([]domain.AdminPromotionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.AdminPromotionRequest
	for _, p := range r.entries {
		if p.TargetEmail == email {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Identity
	ttls     map[string]time.Duration
	loadErr  error
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{
		sessions: make(map[string]domain.Identity),
		ttls:     make(map[string]time.Duration),
	}
}

func (s *stubSessionStore) Save(_ context.Context, sid string, id domain.Identity, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[sid] = id
	s.ttls[sid] = ttl
	return nil
}

func (s *stubSessionStore) Load(_ context.Context, sid string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return domain.Identity{}, s.loadErr
	}
	id, ok := s.sessions[sid]
	if !ok {
		return domain.Identity{}, domain.ErrSessionNotFound
	}
	return id, nil
}

func (s *stubSessionStore) Touch(_ context.Context, sid string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sid]; !ok {
		return domain.ErrSessionNotFound
	}
	s.ttls[sid] = ttl
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	delete(s.ttls, sid)
	return nil
}

// ---------------------------------------------------------------------------
// Idempotency
// ---------------------------------------------------------------------------

type stubIdempotency struct {
	mu        sync.Mutex
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.keys[scope+":"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key, appointmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[scope+":"+key] = appointmentID
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// fixedNow is 2026-03-10 08:00 UTC; bookable dates in tests fall after it.
var fixedNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

var (
	alice = domain.Identity{Authenticated: true, UserID: "user-alice", Email: "alice@example.com"}
	bob   = domain.Identity{Authenticated: true, UserID: "user-bob", Email: "bob@example.com"}
	staff = domain.Identity{Authenticated: true, UserID: "user-staff", Email: "staff@example.com", IsAdmin: true}
)

type fixture struct {
	repo        *stubAppointmentRepo
	profiles    *stubProfileRepo
	idempotency *stubIdempotency
	svc         *AppointmentService
}

func newFixture() *fixture {
	repo := newStubAppointmentRepo()
	profiles := newStubProfileRepo()
	idem := newStubIdempotency()
	svc := NewAppointmentService(
		repo,
		profiles,
		newStubDirectory(),
		NewAvailabilityChecker(repo),
		idem,
		AppointmentConfig{Location: time.UTC, HorizonDays: 14, Now: clock},
		discardLogger,
	)
	return &fixture{repo: repo, profiles: profiles, idempotency: idem, svc: svc}
}

func booking(practitioner, date, at string) ports.BookingInput {
	return ports.BookingInput{
		UserName:         "Alice Rao",
		UserEmail:        "alice@example.com",
		UserPhone:        "555-123-4567",
		PractitionerName: practitioner,
		Date:             date,
		Time:             at,
		ServiceType:      "Ayurvedic Consultation",
	}
}

func strPtr(s string) *string { return &s }
