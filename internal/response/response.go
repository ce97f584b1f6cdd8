package response

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// Error codes returned by the service layer. The handler layer maps these
// to HTTP status codes; services never reference HTTP directly.
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeVersionConflict   = "VERSION_CONFLICT"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeReferential       = "REFERENTIAL_ERROR"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// AppError is the error type carried from services to handlers
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewVersionConflictError creates a VERSION_CONFLICT error carrying the
// expected and actual versions.
func NewVersionConflictError(expected, actual int) *AppError {
	return &AppError{
		Code:    ErrCodeVersionConflict,
		Message: fmt.Sprintf("Version conflict: expected %d, got %d", expected, actual),
	}
}

// NewInvalidTransitionError creates an INVALID_TRANSITION error naming both
// states.
func NewInvalidTransitionError(from, to string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("Cannot transition from %s to %s", from, to),
	}
}

// ErrorBody is the JSON envelope for error responses
type ErrorBody struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path,omitempty"`
}

// SendError writes a standard error response
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": ErrorBody{
			Code:      code,
			Message:   message,
			Timestamp: time.Now().UTC(),
			Path:      c.Request.URL.Path,
		},
	})
}

// SendSuccess writes a success response with the given payload
func SendSuccess(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}
