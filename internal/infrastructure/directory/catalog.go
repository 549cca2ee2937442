package directory

import (
	"errors"
	"strings"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

var ErrEmptyCatalog = errors.New("directory: catalog must list at least one practitioner and one service")

var defaultPractitioners = []domain.Practitioner{
	{
		ID:         1,
		Name:       "Dr. Arjun Sharma",
		Specialty:  "Ayurvedic Physician",
		Experience: "15+ years",
		ImageURL:   "https://images.unsplash.com/photo-1537368910025-700350fe46c7?q=80&w=2070&auto=format&fit=crop",
	},
	{
		ID:         2,
		Name:       "Dr. Priya Patel",
		Specialty:  "Panchakarma Specialist",
		Experience: "12+ years",
		ImageURL:   "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?q=80&w=2070&auto=format&fit=crop",
	},
	{
		ID:         3,
		Name:       "Dr. Vikram Mehta",
		Specialty:  "Ayurvedic Nutrition",
		Experience: "10+ years",
		ImageURL:   "https://images.unsplash.com/photo-1622253692010-333f2da6031d?q=80&w=1964&auto=format&fit=crop",
	},
	{
		ID:         4,
		Name:       "Dr. Anjali Desai",
		Specialty:  "Yoga & Meditation",
		Experience: "8+ years",
		ImageURL:   "https://images.unsplash.com/photo-1594824476967-48c8b964273f?q=80&w=1974&auto=format&fit=crop",
	},
}

var defaultServices = []domain.Service{
	{
		Slug:        "panchakarma",
		Name:        "Panchakarma Therapy",
		Description: "A comprehensive detoxification process that cleanses the body of toxins and restores balance to the doshas.",
	},
	{
		Slug:        "consultation",
		Name:        "Ayurvedic Consultation",
		Description: "Personalized assessment of your constitution (dosha) and health concerns with tailored recommendations.",
	},
	{
		Slug:        "herbal-treatments",
		Name:        "Herbal Treatments",
		Description: "Natural remedies and herbal formulations prepared according to ancient Ayurvedic texts for various health conditions.",
	},
	{
		Slug:        "massage",
		Name:        "Ayurvedic Massage",
		Description: "Therapeutic massage techniques using medicated oils to improve circulation, reduce stress, and promote relaxation.",
	},
	{
		Slug:        "yoga-meditation",
		Name:        "Yoga & Meditation",
		Description: "Guided practices to harmonize mind and body, reduce stress, and enhance overall well-being.",
	},
	{
		Slug:        "dietary-counseling",
		Name:        "Dietary Counseling",
		Description: "Customized nutritional advice based on your dosha type and specific health needs.",
	},
}

// Catalog is the read-only practitioner and service directory. Name lookups
// ignore case and surrounding whitespace and return the canonical entry.
type Catalog struct {
	practitioners []domain.Practitioner
	services      []domain.Service
}

// New builds a catalog from explicit entries.
func New(practitioners []domain.Practitioner, services []domain.Service) (*Catalog, error) {
	if len(practitioners) == 0 || len(services) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{
		practitioners: append([]domain.Practitioner(nil), practitioners...),
		services:      append([]domain.Service(nil), services...),
	}, nil
}

// Default returns the clinic's built-in catalog.
func Default() *Catalog {
	c, _ := New(defaultPractitioners, defaultServices)
	return c
}

func (c *Catalog) ListPractitioners() []domain.Practitioner {
	return append([]domain.Practitioner(nil), c.practitioners...)
}

func (c *Catalog) ListServices() []domain.Service {
	return append([]domain.Service(nil), c.services...)
}

// ListServiceTypes returns the labels accepted as an appointment's service type.
func (c *Catalog) ListServiceTypes() []string {
	out := make([]string, 0, len(c.services))
	for _, s := range c.services {
		out = append(out, s.Name)
	}
	return out
}

func (c *Catalog) PractitionerByName(name string) (domain.Practitioner, bool) {
	for _, p := range c.practitioners {
		if sameName(p.Name, name) {
			return p, true
		}
	}
	return domain.Practitioner{}, false
}

func (c *Catalog) PractitionerByID(id int) (domain.Practitioner, bool) {
	for _, p := range c.practitioners {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Practitioner{}, false
}

// ServiceByName matches either the display name or the slug.
func (c *Catalog) ServiceByName(name string) (domain.Service, bool) {
	for _, s := range c.services {
		if sameName(s.Name, name) || sameName(s.Slug, name) {
			return s, true
		}
	}
	return domain.Service{}, false
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
