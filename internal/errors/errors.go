// Package errors provides custom error types for the FinTrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// FieldError describes a single field that failed validation.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional per-field validation
// details, and optional internal error.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	StatusCode int          `json:"-"`
	Fields     []FieldError `json:"errors,omitempty"`
	Internal   error        `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a new AppError carrying per-field validation details.
func WithFields(sentinel *AppError, fields []FieldError) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Fields:     fields,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrAccountDeactivated = &AppError{Code: "ACCOUNT_DEACTIVATED", Message: "Account is deactivated", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrValidationFailed = &AppError{Code: "VALIDATION_FAILED", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrNotFound         = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrWrongPassword  = &AppError{Code: "WRONG_PASSWORD", Message: "Current password is incorrect", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetNotFound       = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetDates          = &AppError{Code: "INVALID_BUDGET_DATES", Message: "End date must be after start date", StatusCode: http.StatusBadRequest}
	ErrBudgetCategoryExists = &AppError{Code: "BUDGET_CATEGORY_EXISTS", Message: "An active budget already exists for this category", StatusCode: http.StatusConflict}
)

// Goal errors.
var (
	ErrGoalNotFound      = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
	ErrGoalTargetDate    = &AppError{Code: "INVALID_TARGET_DATE", Message: "Target date must be in the future", StatusCode: http.StatusBadRequest}
	ErrMilestoneNotFound = &AppError{Code: "MILESTONE_NOT_FOUND", Message: "Milestone not found", StatusCode: http.StatusNotFound}
)
