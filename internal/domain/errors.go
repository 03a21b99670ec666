package domain

import "errors"

// Store and validation errors
var (
	// ErrDataIntegrity is returned when an operation refers to a record the
	// store cannot reconcile with the Gateway, e.g. an unknown or locally
	// synthesized identifier
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrCustomerNotFound is returned when no customer has the given identifier
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrMechanicNotFound is returned when no mechanic has the given identifier
	ErrMechanicNotFound = errors.New("mechanic not found")

	// ErrMutationInFlight is returned when a record already has a pending Gateway call
	ErrMutationInFlight = errors.New("another change to this record is still in progress")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrLocked is returned when the dashboard session gate is closed
	ErrLocked = errors.New("dashboard is locked")
)

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"numeric":  "Must be a numeric value",
	"oneof":    "Must be one of the allowed values",
	"symptom":  "Must be one of: Air conditioner, Brake System, Tyre Changing",
	"e164":     "Must be a phone number in E.164 format",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeNotFound      = "not_found"
	ErrorTypeBadRequest    = "bad_request"
	ErrorTypeConflict      = "conflict"
	ErrorTypeUnauthorized  = "unauthorized"
	ErrorTypeDataIntegrity = "data_integrity"
	ErrorTypeUpstream      = "upstream_error"
	ErrorTypeTimeout       = "upstream_timeout"
	ErrorTypeRateLimited   = "rate_limited"
	ErrorTypeInternal      = "internal_error"
)
