package common

import (
	"errors"
	"net/http"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"` // debug mode only, or field errors
}

// CustomError carries an API error code and status alongside the cause.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches any CustomError with the same code, so a wrapped instance
// still satisfies errors.Is(err, ErrNotFound).
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WithCause copies e with err as the cause.
func (e *CustomError) WithCause(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// WithMessage copies e with a different message.
func (e *CustomError) WithMessage(message string) *CustomError {
	return NewError(e.Code, message, e.Status, e.Err)
}

const (
	// 4xx
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeConflict         = "CONFLICT"           // 409
	ErrCodeTooLarge         = "PAYLOAD_TOO_LARGE"  // 413
	ErrCodeValidation       = "VALIDATION_FAILED"  // 422
	ErrCodeInvalidImport    = "INVALID_IMPORT"     // 422
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// 5xx
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeAIService          = "AI_SERVICE_ERROR"    // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

var (
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "method not allowed", http.StatusMethodNotAllowed, nil)
	ErrConflict         = NewError(ErrCodeConflict, "duplicate request", http.StatusConflict, nil)
	ErrTooLarge         = NewError(ErrCodeTooLarge, "request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrValidation       = NewError(ErrCodeValidation, "recipe failed validation", http.StatusUnprocessableEntity, nil)
	ErrInvalidImport    = NewError(ErrCodeInvalidImport, "import data is malformed", http.StatusUnprocessableEntity, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrAIServiceError     = NewError(ErrCodeAIService, "AI service unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "request timed out", http.StatusGatewayTimeout, nil)
)
