// file: internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ===============================
// ERROR TYPES
// ===============================

// ServiceError represents a structured service error
type ServiceError struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewBusinessError creates a business logic error
func NewBusinessError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       "BUSINESS_ERROR",
		Message:    message,
		Code:       code,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       "NOT_FOUND",
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{
		Type:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{
		Type:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       "CONFLICT",
		Message:    message,
		Code:       code,
		StatusCode: http.StatusConflict,
	}
}

// NewInternalError creates an internal server error wrapping its cause
func NewInternalError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ===============================
// ERROR UTILITIES
// ===============================

// GetServiceError extracts a ServiceError from an error, or creates a generic one
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return NewInternalError(err.Error(), err)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Type == errorType
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return IsErrorType(err, "NOT_FOUND")
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsErrorType(err, "VALIDATION_ERROR")
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return IsErrorType(err, "CONFLICT")
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return IsErrorType(err, "UNAUTHORIZED")
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return IsErrorType(err, "FORBIDDEN")
}

// ===============================
// COMMON ERROR PATTERNS
// ===============================

// EntityNotFoundError creates a standard entity not found error
func EntityNotFoundError(entityType string, id interface{}) *ServiceError {
	e := NewNotFoundError(fmt.Sprintf("%s not found", entityType))
	e.Details = map[string]interface{}{"resource": entityType, "id": id}
	return e
}

// EntityAlreadyExistsError creates a standard entity already exists error
func EntityAlreadyExistsError(entityType, field, value string) *ServiceError {
	e := NewConflictError(fmt.Sprintf("%s already exists", entityType), "ENTITY_ALREADY_EXISTS")
	e.Details = map[string]interface{}{"resource": entityType, "field": field, "value": value}
	return e
}

// InsufficientPermissionsError creates a standard permissions error
func InsufficientPermissionsError(action, resource string) *ServiceError {
	e := NewForbiddenError(fmt.Sprintf("Insufficient permissions to %s %s", action, resource))
	e.Details = map[string]interface{}{"operation": action, "resource": resource}
	return e
}
