// Package apperr defines the error kinds returned by the service layer.
//
// Every client-facing failure is a *FieldError scoped to a request field
// (or to "detail" when no single field is at fault). A FieldError unwraps to
// its Kind, and ValidationErrors unwraps to its members, so callers match
// failures with errors.Is regardless of how many fields were rejected.
package apperr

import (
	"errors"
	"strings"
)

// Kind classifies a rejection. Kinds are comparable errors and serve as
// sentinels for errors.Is.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	InvalidUsername      Kind = "invalid_username"
	InvalidEmail         Kind = "invalid_email"
	UsernameConflict     Kind = "username_conflict"
	EmailConflict        Kind = "email_conflict"
	NotFound             Kind = "not_found"
	InvalidCode          Kind = "invalid_code"
	RequiredFieldMissing Kind = "required"
	OutOfRange           Kind = "out_of_range"
	InvalidSlug          Kind = "invalid_slug"
	UnknownReference     Kind = "unknown_reference"
	AlreadyReviewed      Kind = "already_reviewed"
	Conflict             Kind = "conflict"
	PermissionDenied     Kind = "permission_denied"
)

// DetailField is used for failures that are not tied to one input field.
const DetailField = "detail"

// FieldError is a single rejected field.
type FieldError struct {
	Field   string
	Kind    Kind
	Message string
}

// New creates a FieldError.
func New(field string, kind Kind, message string) *FieldError {
	return &FieldError{Field: field, Kind: kind, Message: message}
}

// NotFoundError reports a missing resource.
func NotFoundError(resource string) *FieldError {
	return New(DetailField, NotFound, resource+" not found.")
}

// Forbidden reports an action the acting user may not perform.
func Forbidden(message string) *FieldError {
	return New(DetailField, PermissionDenied, message)
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func (e *FieldError) Unwrap() error { return e.Kind }

// ValidationErrors aggregates every field rejected by one validation pass.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, e := range v {
		errs = append(errs, e)
	}
	return errs
}

// Err returns nil for an empty set so callers can return it directly.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Fields flattens err into the field-keyed payload returned to clients.
// It returns nil when err carries no field errors.
func Fields(err error) map[string][]string {
	var agg ValidationErrors
	if errors.As(err, &agg) {
		out := make(map[string][]string, len(agg))
		for _, e := range agg {
			out[e.Field] = append(out[e.Field], e.Message)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return map[string][]string{fe.Field: {fe.Message}}
	}
	return nil
}

// KindOf returns the kind of the first field error in err, if any.
func KindOf(err error) (Kind, bool) {
	var agg ValidationErrors
	if errors.As(err, &agg) && len(agg) > 0 {
		return agg[0].Kind, true
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
