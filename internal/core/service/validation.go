package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

var validate = validator.New()

const phoneDigits = 10

func requireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return nil
}

// validateEmail ignores surrounding whitespace; callers store the
// normalized address.
func validateEmail(email string) error {
	if err := validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
		return fmt.Errorf("%w: a valid email address is required", domain.ErrValidation)
	}
	return nil
}

// validatePhone accepts an empty value or one with exactly ten digits once
// punctuation and spaces are stripped.
func validatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits != phoneDigits {
		return fmt.Errorf("%w: phone must contain %d digits", domain.ErrValidation, phoneDigits)
	}
	return nil
}

// civilDay truncates t to its calendar day in loc, expressed at UTC midnight
// so it compares directly with domain.ParseDate results.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
