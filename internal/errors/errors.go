// Package errors provides custom error types for the pocketplan API.
// All service-layer errors use AppError so callers get consistent
// responses that never leak internal details.
package errors

import "net/http"

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

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Budget errors.
var (
	ErrBudgetNotFound      = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudgetName = &AppError{Code: "DUPLICATE_BUDGET_NAME", Message: "A budget with this name already exists", StatusCode: http.StatusConflict}

	// ErrBudgetVersionMissing is raised when an update is submitted without the
	// concurrency version token read alongside the budget. Without the token a
	// conflicting edit cannot be detected, so the write is refused.
	ErrBudgetVersionMissing = &AppError{Code: "BUDGET_VERSION_MISSING", Message: "Budget version token missing", StatusCode: http.StatusNotFound}

	// ErrBudgetConcurrentUpdate signals that the stored version token no longer
	// matches the one the caller read. The caller should re-fetch and retry.
	ErrBudgetConcurrentUpdate = &AppError{Code: "BUDGET_CONCURRENT_UPDATE", Message: "The budget was updated by another user", StatusCode: http.StatusConflict}

	// ErrBudgetDeletedConcurrently signals that the budget disappeared between
	// the caller's read and its update attempt.
	ErrBudgetDeletedConcurrently = &AppError{Code: "BUDGET_DELETED", Message: "The budget was deleted by another user", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}

	// ErrAllocationExceedsBudget rejects a category allocation larger than the
	// owning budget's remaining (unallocated) amount.
	ErrAllocationExceedsBudget = &AppError{Code: "ALLOCATION_EXCEEDS_BUDGET", Message: "Allocated amount exceeds remaining budget", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}

	// ErrTransactionExceedsAllocation rejects a transaction larger than the
	// category's current allocated amount.
	ErrTransactionExceedsAllocation = &AppError{Code: "TRANSACTION_EXCEEDS_ALLOCATION", Message: "Transaction amount exceeds the allocated category amount", StatusCode: http.StatusConflict}

	// ErrNoSignificantChange rejects a transaction update whose amount, after
	// rounding to cents, differs from the stored amount by less than 0.01.
	ErrNoSignificantChange = &AppError{Code: "NO_SIGNIFICANT_CHANGE", Message: "New transaction amount does not differ from the current amount", StatusCode: http.StatusConflict}
)

// Bill errors.
var (
	ErrBillNotFound = &AppError{Code: "BILL_NOT_FOUND", Message: "Bill not found", StatusCode: http.StatusNotFound}
)
