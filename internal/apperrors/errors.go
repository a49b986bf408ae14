package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by services and controllers
var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when the session token is missing, invalid or expired
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNotFound is returned when a post does not exist or is not owned by the caller
	ErrNotFound = errors.New("post not found")
	// ErrMissingFilename is returned by the upload relay before storage is contacted
	ErrMissingFilename = errors.New("filename is required")
)

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// UpstreamError wraps a database or object storage failure.
// Its message never reaches the client.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Upstream wraps err as an UpstreamError unless it already belongs to the taxonomy
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsKnown(err) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// IsKnown reports whether err is one of the typed errors above
func IsKnown(err error) bool {
	var ve *ValidationError
	var ue *UpstreamError
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMissingFilename) ||
		errors.As(err, &ve) ||
		errors.As(err, &ue)
}
