// Package model holds the budgeting core: categories, entries, alerts and the
// monthly budget that owns a calendar month's entries.
package model

import (
	"errors"
	"fmt"
)

// Error classes. Every sentinel below wraps one of these so callers can test
// the class with errors.Is.
var (
	// ErrValidation marks input that violates a domain rule.
	ErrValidation = errors.New("validation failed")
	// ErrTypeMismatch marks an unknown or wrong enum-like kind, usually a caller bug.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Validation errors.
var (
	ErrInvalidName           = fmt.Errorf("%w: category name must have at least %d characters", ErrValidation, MinCategoryNameLength)
	ErrInvalidLimit          = fmt.Errorf("%w: monthly limit must be greater than zero", ErrValidation)
	ErrIncomeLimit           = fmt.Errorf("%w: income categories cannot have a spending limit", ErrValidation)
	ErrInvalidAmount         = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrEmptyDescription      = fmt.Errorf("%w: description is required", ErrValidation)
	ErrMissingCategory       = fmt.Errorf("%w: category is required", ErrValidation)
	ErrMissingDate           = fmt.Errorf("%w: date is required", ErrValidation)
	ErrMissingEntry          = fmt.Errorf("%w: entry is required", ErrValidation)
	ErrCategoryMismatch      = fmt.Errorf("%w: category kind does not match entry kind", ErrValidation)
	ErrMonthMismatch         = fmt.Errorf("%w: entry does not belong to this budget month", ErrValidation)
	ErrDuplicateEntry        = fmt.Errorf("%w: entry already exists in this budget", ErrValidation)
	ErrInvalidMonth          = fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	ErrInvalidYear           = fmt.Errorf("%w: year must be between %d and %d", ErrValidation, MinYear, MaxYear)
	ErrNegativePlannedIncome = fmt.Errorf("%w: planned income cannot be negative", ErrValidation)
	ErrEmptyMessage          = fmt.Errorf("%w: alert message is required", ErrValidation)
)

// Type-mismatch errors.
var (
	ErrUnknownCategoryKind  = fmt.Errorf("%w: unknown category kind", ErrTypeMismatch)
	ErrUnknownEntryKind     = fmt.Errorf("%w: unknown entry kind", ErrTypeMismatch)
	ErrUnknownPaymentMethod = fmt.Errorf("%w: unknown payment method", ErrTypeMismatch)
	ErrUnknownAlertKind     = fmt.Errorf("%w: unknown alert kind", ErrTypeMismatch)
)
