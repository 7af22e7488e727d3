// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package validate provides chainable input validation with field-level errors.

It accumulates failures across multiple rules and condenses them into a
single [apperr.ValidationError], so a form submission reports every problem
at once instead of one per round trip.
*/
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"parsight/internal/platform/apperr"
)

// ErrInvalidJSON is returned when a request or response body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON body")

// emailPattern is a pragmatic format check, not a full RFC 5322 parser.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validator accumulates field-level validation failures.
//
// # Usage
//
//	v := &validate.Validator{}
//	err := v.Required("username", name).
//		MinLen("username", name, 3).
//		Email("email", email).
//		Err()
type Validator struct {
	details []apperr.FieldError
}

// Required fails when value is empty or whitespace-only.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
	return v
}

// MinLen fails when value is shorter than min characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if len([]rune(value)) < min {
		v.add(field, fmt.Sprintf("must be at least %d characters", min))
	}
	return v
}

// MaxLen fails when value is longer than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if len([]rune(value)) > max {
		v.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return v
}

// Email fails when value does not look like an email address.
func (v *Validator) Email(field, value string) *Validator {
	if !emailPattern.MatchString(value) {
		v.add(field, "must be a valid email address")
	}
	return v
}

// OneOf fails when value is not among the allowed options.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.details) > 0
}

// Err condenses accumulated failures into a single error, or nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.details...)
}

func (v *Validator) add(field, message string) {
	v.details = append(v.details, apperr.FieldError{Field: field, Message: message})
}
