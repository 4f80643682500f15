// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package validate implements input validation for the service layer.
//
// # Architecture
//
// A Validator accumulates per-field failures across a fluent chain and
// folds them into one VALIDATION_ERROR at the end, so a rejected form
// reports every problem at once instead of the first one found. Only
// services validate; handlers decode, stores assume valid data.
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
)

// ErrInvalidJSON is returned when a request body cannot be decoded at all.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// DateLayout is the wire format for publish dates (ISO 8601, date only).
const DateLayout = "2006-01-02"

// Validator accumulates field errors across a chain of rule calls.
//
// # Concurrency
//
// Not safe for concurrent use; build one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails when the value is empty after trimming whitespace.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails when the value exceeds max characters. Counted in runes,
// not bytes: Romanian diacritics must not eat into the limit.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Range fails when the value falls outside [min, max].
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Date fails unless the value parses as YYYY-MM-DD.
func (v *Validator) Date(field, value string) *Validator {
	if _, err := time.Parse(DateLayout, value); err != nil {
		v.add(field, "Must be a valid date (YYYY-MM-DD)")
	}
	return v
}

// OneOf fails unless the value equals one of the allowed strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Err terminates the chain: nil when every rule passed, otherwise a
// VALIDATION_ERROR carrying all accumulated field errors.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
