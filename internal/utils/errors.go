package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN" // Authenticated but lacking the required role or ownership
	ErrInvalidToken = "INVALID_TOKEN"

	// Review-specific errors
	ErrAlreadyTopReview = "ALREADY_TOP_REVIEW"
	ErrScoringFailed    = "SCORING_FAILED"

	// Suggestion-specific errors
	ErrAlreadyAccepted = "ALREADY_ACCEPTED"

	// Admin-specific errors
	ErrAdminExists        = "ADMIN_ALREADY_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Consistency faults
	ErrStatsMissing = "STATS_MISSING"

	// File validation errors
	ErrFileRejected = "FILE_REJECTED"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	ErrDatabase = "database_error"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewNotFoundError(what string, id string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: what + " not found: " + id,
	}
}

func NewUnauthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "Unauthorized: " + reason,
	}
}

func NewForbiddenError(reason string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: "Forbidden: " + reason,
	}
}

func NewValidationError(reason string) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Message: reason,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

func NewStatsMissingError(operation string) *AppError {
	return &AppError{
		Code:    ErrStatsMissing,
		Message: fmt.Sprintf("review stats row missing during %s; a create should have synthesized it", operation),
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// Helper method to check if an error is related to authentication
func IsAuthError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrUnauthorized ||
			appErr.Code == ErrForbidden ||
			appErr.Code == ErrInvalidToken
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrFileRejected, ErrScoringFailed:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken, ErrInvalidCredentials:
		return 401 // http.StatusUnauthorized
	case ErrForbidden, ErrAlreadyAccepted:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrAlreadyTopReview, ErrAdminExists:
		return 409 // http.StatusConflict
	case ErrDatabase, ErrActorTimeout, ErrStatsMissing:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
