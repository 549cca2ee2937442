package ports

import "github.com/vedaclinic/booking-api/internal/core/domain"

// Directory is the static catalog of practitioners and service offerings.
type Directory interface {
	ListPractitioners() []domain.Practitioner
	ListServiceTypes() []string
	ListServices() []domain.Service
	PractitionerByName(name string) (domain.Practitioner, bool)
	PractitionerByID(id int) (domain.Practitioner, bool)
	ServiceByName(name string) (domain.Service, bool)
}
