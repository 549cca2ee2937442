package domain

// Practitioner is a static directory entry.
type Practitioner struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Specialty  string `json:"specialty"`
	Experience string `json:"experience"`
	ImageURL   string `json:"image"`
}

// Service is a bookable offering; Name is the label stored on appointments.
type Service struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	slotsPerDay     = 8
	slotLengthMins  = 30
	firstSlotHour   = 9
	startHourSpread = 4
)

// DailySlots returns the practitioner's bookable slot grid for a day: eight
// half-hour slots whose start hour is staggered by practitioner id.
func (p Practitioner) DailySlots() []TimeOfDay {
	start := NewTimeOfDay(firstSlotHour+p.ID%startHourSpread, 0)
	slots := make([]TimeOfDay, 0, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		slots = append(slots, start+TimeOfDay(i*slotLengthMins))
	}
	return slots
}
