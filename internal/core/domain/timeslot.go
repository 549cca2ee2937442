package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of appointment dates.
const DateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// Conflict detection keys on this value, never on the display label.
type TimeOfDay int

var timeLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"15:04",
	"3 PM",
	"3PM",
}

// ParseTimeLabel accepts "2:30 PM", "2:30pm", "14:30" and "2 PM" style labels.
func ParseTimeLabel(label string) (TimeOfDay, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(label), " "))
	if s == "" {
		return 0, fmt.Errorf("%w: time is required", ErrValidation)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognised time %q", ErrValidation, label)
}

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func (t TimeOfDay) Minutes() int { return int(t) }

// Label renders the canonical display form, e.g. "2:30 PM".
func (t TimeOfDay) Label() string {
	return time.Date(0, 1, 1, int(t)/60, int(t)%60, 0, 0, time.UTC).Format("3:04 PM")
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return d, nil
}
