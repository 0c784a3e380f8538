package errors

import "fmt"

type ErrorCode string

const (
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrPastEvent                  ErrorCode = "PAST_EVENT"
	ErrDatabaseUnavailable        ErrorCode = "DATABASE_UNAVAILABLE"
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError is the error type services return to controllers. Code drives the
// HTTP status mapping in core/controller; Err keeps the underlying cause for
// logging.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`

	// Suggestion carries a human-readable hint for date/time logic errors.
	Suggestion string `json:"suggestion,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewAppErrorWithSuggestion builds a validation error that also tells the
// caller how to fix the request.
func NewAppErrorWithSuggestion(code ErrorCode, message, suggestion string) *AppError {
	return &AppError{Code: code, Message: message, Suggestion: suggestion}
}
