// Package apierror provides the error taxonomy of the invoicing core and the
// standardized response envelopes for the API. All errors returned to clients
// go through this package to ensure consistency and to prevent leaking
// internal details (stack traces, DB errors, etc.).
package apierror

import "fmt"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationEnvelope wraps multiple field errors.
type ValidationEnvelope struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationEnvelope {
	return &ValidationEnvelope{Detail: "validation failed", Fields: fields}
}

// ── Error taxonomy ───────────────────────────────────────────────────────────
// Handlers match these with errors.As and map them to HTTP statuses:
// ValidationError → 422, MissingEntityError → 404, StateConflictError → 409,
// TransportError → 502, RenderError → 500.

// ValidationError reports malformed input with field-level messages.
// Never logged as a system fault.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for f, msg := range e.Fields {
		return fmt.Sprintf("validation: %s: %s", f, msg)
	}
	return "validation failed"
}

// Validation builds a single-field ValidationError.
func Validation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// MissingEntityError means an invoice, sender, recipient or case could not be
// loaded for the current operation. Fatal to the operation, never retried.
type MissingEntityError struct {
	Entity string
	ID     string
}

func (e *MissingEntityError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// MissingEntity builds a MissingEntityError.
func MissingEntity(entity, id string) *MissingEntityError {
	return &MissingEntityError{Entity: entity, ID: id}
}

// StateConflictError means a mutation was attempted on a locked (paid or
// cancelled) invoice, or a callback referenced a nonexistent send event.
// Surfaced distinctly from validation so the caller can explain "this invoice
// is locked" rather than "bad input".
type StateConflictError struct {
	Msg string
}

func (e *StateConflictError) Error() string { return e.Msg }

// StateConflict builds a StateConflictError.
func StateConflict(format string, args ...any) *StateConflictError {
	return &StateConflictError{Msg: fmt.Sprintf(format, args...)}
}

// TransportError means the email provider rejected or could not deliver the
// send request. Recorded on the send event and returned verbatim to the
// caller; never retried automatically.
type TransportError struct {
	Msg string
}

func (e *TransportError) Error() string { return e.Msg }

// Transport wraps a transport failure.
func Transport(err error) *TransportError {
	return &TransportError{Msg: err.Error()}
}

// RenderError is an unexpected failure inside document layout. No partial
// document is ever returned alongside one.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }
