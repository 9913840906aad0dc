package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrForbidden         = errors.New("insufficient permissions")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrInvalidFile       = errors.New("invalid file")
)

// Validation constants
const (
	MaxNameLength         = 255
	MaxRemarksLength      = 1000
	MinPasswordLength     = 6
	MaxAttachmentSize     = 10 * 1024 * 1024 // 10MB
	MaxProfilePictureSize = 5 * 1024 * 1024  // 5MB
)

// FieldError is a validation failure attributed to a single request field.
// It matches ErrValidation with errors.Is.
type FieldError struct {
	Field   string
	Message string
}

// NewFieldError creates a FieldError for the given field
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) succeed
func (e *FieldError) Unwrap() error {
	return ErrValidation
}
