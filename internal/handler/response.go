package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// ProblemDetails represents an RFC 7807 Problem Details response.
// Message repeats Detail for clients that only read a flat message.
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Message  string            `json:"message"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse is a plain acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://ttdashboard.app/errors/validation"
	ErrorTypeNotFound     = "https://ttdashboard.app/errors/not-found"
	ErrorTypeUnauthorized = "https://ttdashboard.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://ttdashboard.app/errors/forbidden"
	ErrorTypeUnavailable  = "https://ttdashboard.app/errors/unavailable"
	ErrorTypeInternal     = "https://ttdashboard.app/errors/internal"
)

func newProblem(c echo.Context, status int, typ, title, detail string, errs []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     typ,
		Title:    title,
		Status:   status,
		Message:  detail,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errs,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return newProblem(c, http.StatusBadRequest, ErrorTypeValidation, "Validation Error", detail, errors)
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail, nil)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail, nil)
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusForbidden, ErrorTypeForbidden, "Forbidden", detail, nil)
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusServiceUnavailable, ErrorTypeUnavailable, "Service Unavailable", detail, nil)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail, nil)
}

// respondError maps a service error onto the status table. resource names the
// entity for not-found messages and logs.
func respondError(c echo.Context, err error, resource string) error {
	var fieldErr *domain.FieldError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &fieldErr):
		return NewValidationError(c, fieldErr.Message, []ValidationError{
			{Field: fieldErr.Field, Message: fieldErr.Message},
		})
	case errors.As(err, &validationErrs):
		return NewValidationError(c, "Validation failed", toValidationErrors(validationErrs))
	case errors.Is(err, domain.ErrInvalidFile):
		return NewValidationError(c, err.Error(), []ValidationError{
			{Field: "file", Message: err.Error()},
		})
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRange):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredential):
		return NewUnauthorizedError(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, notFoundMessage(resource))
	case errors.Is(err, service.ErrAttachmentsNotConfigured):
		return NewServiceUnavailableError(c, "File uploads are disabled (storage not configured)")
	}

	log.Error().Err(err).
		Str("resource", resource).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("Request failed")
	return NewInternalError(c, err.Error())
}

func notFoundMessage(resource string) string {
	if resource == "" {
		return "Resource not found"
	}
	return strings.ToUpper(resource[:1]) + resource[1:] + " not found"
}
