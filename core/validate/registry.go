// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package validate checks reservation form fields before they reach the backend.

Validators are looked up by name from a registry so routes can drive
validation from the field metadata the backend serves, rather than
hard-coding per-form logic.
*/
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Func reports whether value is acceptable. The returned message is a
// translation key under the "forms.errors" table, resolved at render time.
type Func func(value string) (ok bool, messageKey string)

var ErrUnknownValidator = errors.New("unknown validator")

// Registry maps validator names to their implementations.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces the validator for name.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Validate runs the named validator against value.
//
// An unregistered name is an error rather than a silent pass so that a typo
// in field metadata cannot disable validation.
func (r *Registry) Validate(name, value string) (bool, string, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return false, "", fmt.Errorf("%w: %s", ErrUnknownValidator, name)
	}

	valid, messageKey := fn(value)

	return valid, messageKey, nil
}

// Names returns the registered validator names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}

	return names
}

var (
	emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegexp = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,18}$`)
)

const (
	minPartySize = 2
	maxPartySize = 8
)

// timeSlots are the bookable evening seatings.
var timeSlots = map[string]struct{}{
	"18:00": {}, "18:30": {},
	"19:00": {}, "19:30": {},
	"20:00": {}, "20:30": {},
	"21:00": {}, "21:30": {},
}

// Default returns a registry with the validators the reservation forms use.
func Default() *Registry {
	r := NewRegistry()

	r.Register("required", func(value string) (bool, string) {
		if strings.TrimSpace(value) == "" {
			return false, "forms.errors.required"
		}

		return true, ""
	})

	r.Register("email", func(value string) (bool, string) {
		if !emailRegexp.MatchString(value) {
			return false, "forms.errors.email"
		}

		return true, ""
	})

	r.Register("phone", func(value string) (bool, string) {
		if !phoneRegexp.MatchString(value) {
			return false, "forms.errors.phone"
		}

		return true, ""
	})

	r.Register("date", func(value string) (bool, string) {
		day, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			return false, "forms.errors.date"
		}

		// Same-day reservations are allowed; past dates are not. "Today"
		// is the server's local calendar day, not the UTC one.
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		if day.Before(today) {
			return false, "forms.errors.date_past"
		}

		return true, ""
	})

	r.Register("time_slot", func(value string) (bool, string) {
		if _, ok := timeSlots[value]; !ok {
			return false, "forms.errors.time_slot"
		}

		return true, ""
	})

	r.Register("party_size", func(value string) (bool, string) {
		size, err := strconv.Atoi(value)
		if err != nil || size < minPartySize || size > maxPartySize {
			return false, "forms.errors.party_size"
		}

		return true, ""
	})

	return r
}
