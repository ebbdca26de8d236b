package models

import (
	"sort"
	"strings"

	"github.com/desertthunder/tlx/internal/shared"
)

// ValidationError collects field-level validation failures.
//
// It wraps [shared.ErrInvalidInput] so callers can match it with errors.Is.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a [ValidationError] with a single message for field.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records message against field.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// Merge copies every message of other into v. A nil other is ignored.
func (v *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, msg := range msgs {
			v.Add(field, msg)
		}
	}
}

// Empty reports whether no failures were recorded.
func (v *ValidationError) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

// Has reports whether field has at least one failure.
func (v *ValidationError) Has(field string) bool {
	return v != nil && len(v.Fields[field]) > 0
}

// OrNil returns v as an error, or nil when it is empty.
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(v.Fields[field], "; "))
	}
	return shared.ErrInvalidInput.Error() + ": " + strings.Join(parts, ", ")
}

func (v *ValidationError) Unwrap() error {
	return shared.ErrInvalidInput
}
