package validation

import (
	"regexp"
	"strings"
)

// Violations maps a field path (e.g. "client.email", "items[2].hours") to a
// translation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Email flags a non-empty value that does not look like an address.
// Empty values are left to Required.
func Email(field, value string, v Violations) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if !emailPattern.MatchString(value) {
		v[field] = "invalid_email"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// MinLen flags collections shorter than n.
func MinLen(field string, length, n int, v Violations) {
	if length < n {
		v[field] = "too_few"
	}
}
