package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/NomadCrew/nomad-crew-planner/logger"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	NotFoundError   ErrorType = "NOT_FOUND"
	AuthError       ErrorType = "AUTHENTICATION_ERROR"
	ForbiddenError  ErrorType = "FORBIDDEN"
	ConflictError   ErrorType = "CONFLICT"
	GoneError       ErrorType = "GONE"
	RateLimitError  ErrorType = "RATE_LIMIT"
	DatabaseError   ErrorType = "DATABASE_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
)

// Authentication failure codes. Clients branch on these to decide between
// refreshing a session and sending the user back to the login screen.
const (
	CodeMissingToken       = "missing_token"
	CodeTokenExpired       = "token_expired"
	CodeTokenInvalid       = "token_invalid"
	CodeInvalidCredentials = "invalid_credentials"
)

// AppError is the error shape every handler hands to the error middleware.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
	// TripID lets a client redirect after a conflict, e.g. an invitation
	// that was already accepted.
	TripID int64 `json:"tripId,omitempty"`
	// RetryAfter is set on rate limit errors, in seconds.
	RetryAfter int `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus falls back to the type's default status when none was set.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// As returns the *AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Code:       "not_found",
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Code:       "invalid_argument",
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// AuthenticationFailed is a 401 for a wrong email or password.
func AuthenticationFailed(message string) *AppError {
	return Unauthorized(CodeInvalidCredentials, message)
}

// Unauthorized builds a 401 carrying one of the Code* constants.
func Unauthorized(code, message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string, details string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Code:       "forbidden",
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotTripMember is the standard refusal for membership-gated operations.
func NotTripMember(tripID, userID int64) *AppError {
	return Forbidden("You are not a member of this trip",
		fmt.Sprintf("user %d is not a member of trip %d", userID, tripID))
}

// NotTripOwner is the standard refusal for owner-only operations.
func NotTripOwner(tripID, userID int64) *AppError {
	return Forbidden("Only the trip owner can do this",
		fmt.Sprintf("user %d does not own trip %d", userID, tripID))
}

func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Code:       "conflict",
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// ConflictWithTrip is a conflict whose response carries the trip id.
func ConflictWithTrip(code, message string, tripID int64) *AppError {
	return &AppError{
		Type:       ConflictError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		TripID:     tripID,
	}
}

func Gone(code, message string) *AppError {
	return &AppError{
		Type:       GoneError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusGone,
	}
}

func RateLimitExceeded(message string, retryAfter int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Code:       "rate_limited",
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

// NewDatabaseError logs the storage failure and returns a sanitised 500.
func NewDatabaseError(err error) *AppError {
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Code:       "database_error",
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Code:       "internal_error",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case ConflictError:
		return http.StatusConflict
	case GoneError:
		return http.StatusGone
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
