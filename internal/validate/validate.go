// Package validate provides field-level validation with accumulated
// field-to-message errors. Checks never return error values and never
// panic; failures are collected on the Validator and drained by the
// caller through Errs / FirstError.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only calendar-date format the catalog accepts.
const DateLayout = "2006-01-02"

var emailRX = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Errors is an ordered field-to-message collection. It implements error so
// services can hand it back to callers as the validation-failure outcome.
type Errors struct {
	fields   []string
	messages map[string]string
}

func newErrors() *Errors {
	return &Errors{messages: make(map[string]string)}
}

// Add records message for field. The first message per field wins.
func (e *Errors) Add(field, message string) {
	if _, ok := e.messages[field]; ok {
		return
	}
	e.fields = append(e.fields, field)
	e.messages[field] = message
}

// Len returns the number of failed fields.
func (e *Errors) Len() int { return len(e.fields) }

// Fields returns the failed field names in the order they were recorded.
func (e *Errors) Fields() []string { return e.fields }

// Get returns the message for field, or "" when the field passed.
func (e *Errors) Get(field string) string { return e.messages[field] }

// First returns the earliest recorded message, or "".
func (e *Errors) First() string {
	if len(e.fields) == 0 {
		return ""
	}
	return e.messages[e.fields[0]]
}

func (e *Errors) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e.First())
}

// Validator accumulates validation failures. The zero value is not usable;
// construct with New. A Validator is not safe for concurrent use; create
// one per call.
type Validator struct {
	errs *Errors
}

func New() *Validator {
	return &Validator{errs: newErrors()}
}

// Valid reports whether no check has failed so far.
func (v *Validator) Valid() bool { return v.errs.Len() == 0 }

// Errs returns the accumulated failures.
func (v *Validator) Errs() *Errors { return v.errs }

// FirstError returns the earliest failure message, or "".
func (v *Validator) FirstError() string { return v.errs.First() }

// Clear resets the accumulator.
func (v *Validator) Clear() { v.errs = newErrors() }

// AddError records an arbitrary failure for field.
func (v *Validator) AddError(field, message string) { v.errs.Add(field, message) }

// Required checks that value is non-empty after trimming. The literal "0"
// counts as present.
func (v *Validator) Required(value, field string) bool {
	if strings.TrimSpace(value) == "" {
		v.errs.Add(field, fmt.Sprintf("%s is required", field))
		return false
	}
	return true
}

// Length checks that value is between min and max bytes inclusive.
func (v *Validator) Length(value string, min, max int, field string) bool {
	if n := len(value); n < min || n > max {
		v.errs.Add(field, fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
		return false
	}
	return true
}

// Numeric checks that value parses as a number.
func (v *Validator) Numeric(value, field string) bool {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		v.errs.Add(field, fmt.Sprintf("%s must be a number", field))
		return false
	}
	return true
}

// Min checks that value is at least min.
func (v *Validator) Min(value, min int, field string) bool {
	if value < min {
		v.errs.Add(field, fmt.Sprintf("%s must be at least %d", field, min))
		return false
	}
	return true
}

// Max checks that value is at most max.
func (v *Validator) Max(value, max int, field string) bool {
	if value > max {
		v.errs.Add(field, fmt.Sprintf("%s must not exceed %d", field, max))
		return false
	}
	return true
}

// Date checks that value is a real calendar date in DateLayout. The parsed
// date is formatted back and compared so that normalised near-misses
// (for example "2024-2-3") are rejected along with impossible dates.
func (v *Validator) Date(value, field string) bool {
	t, err := time.Parse(DateLayout, value)
	if err != nil || t.Format(DateLayout) != value {
		v.errs.Add(field, fmt.Sprintf("%s must be a valid YYYY-MM-DD date", field))
		return false
	}
	return true
}

// DateRange checks start ≤ finish. The check is skipped when either side
// is empty; both values are expected to have passed Date already.
func (v *Validator) DateRange(start, finish, field string) bool {
	if start == "" || finish == "" {
		return true
	}
	if start > finish {
		v.errs.Add(field, "start date cannot be after finish date")
		return false
	}
	return true
}

// Email checks the address format. Empty values pass; pair with Required
// when the field is mandatory.
func (v *Validator) Email(value, field string) bool {
	if value == "" {
		return true
	}
	if !emailRX.MatchString(value) {
		v.errs.Add(field, "invalid email format")
		return false
	}
	return true
}

// In checks that value is one of allowed.
func (v *Validator) In(value string, allowed []string, field string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	v.errs.Add(field, fmt.Sprintf("invalid value for %s", field))
	return false
}
