// Package errors provides custom error types for the Survivalist API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"fmt"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Plan errors. ErrPlanNotOwned is an ownership failure, not a lookup
// failure: it fires when a user references someone else's plan while
// creating or moving a plan item.
var (
	ErrPlanNotFound = &AppError{Code: "PLAN_NOT_FOUND", Message: "Plan not found", StatusCode: http.StatusNotFound}
	ErrPlanNotOwned = &AppError{Code: "PLAN_NOT_OWNED", Message: "You do not own the selected plan", StatusCode: http.StatusForbidden}
	ErrInvalidMonth = &AppError{Code: "INVALID_MONTH", Message: "Invalid month format. Use YYYY-MM.", StatusCode: http.StatusBadRequest}
)

// Plan item errors.
var (
	ErrPlanItemNotFound = &AppError{Code: "PLAN_ITEM_NOT_FOUND", Message: "Plan item not found", StatusCode: http.StatusNotFound}
	ErrBudgetOverflow   = &AppError{Code: "BUDGET_OVERFLOW", Message: "Plan item amounts exceed the plan income", StatusCode: http.StatusBadRequest}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// Goal errors.
var (
	ErrGoalNotFound = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
)

// Stats errors.
var (
	ErrNoPlanForMonth  = &AppError{Code: "NO_PLAN_FOR_MONTH", Message: "No plan at the given month", StatusCode: http.StatusNotFound}
	ErrNoCategoryMonth = &AppError{Code: "NO_CATEGORY_FOR_MONTH", Message: "No plan at the given month has this category", StatusCode: http.StatusNotFound}
)

// BudgetOverflowError builds a BUDGET_OVERFLOW AppError whose message carries
// the action-specific phrasing and the overflow amount, e.g.
// "Adding this item will exceed the income by (50)".
func BudgetOverflowError(phrase string, overflowBy int64) *AppError {
	return WithMessage(ErrBudgetOverflow, fmt.Sprintf("%s by (%d)", phrase, overflowBy))
}
