package shared

import "errors"

// ErrorCategory is the caller-facing class of a domain error.
// The HTTP layer maps each category to exactly one status code.
type ErrorCategory string

const (
	CategoryUnauthenticated     ErrorCategory = "UNAUTHENTICATED"
	CategoryForbidden           ErrorCategory = "FORBIDDEN"
	CategoryNotFound            ErrorCategory = "NOT_FOUND"
	CategoryValidation          ErrorCategory = "VALIDATION_ERROR"
	CategoryInsufficientStock   ErrorCategory = "INSUFFICIENT_STOCK"
	CategoryDuplicateIdentifier ErrorCategory = "DUPLICATE_IDENTIFIER"
	CategoryInternal            ErrorCategory = "INTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Category ErrorCategory `json:"category"`
	cause    error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches category sentinels (ErrNotFound, ErrForbidden, ...) against any
// error of the same category, and otherwise compares codes.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Category != e.Category {
		return false
	}
	return t.Code == string(t.Category) || t.Code == e.Code
}

// WithCause returns a copy of the error carrying cause
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Category: e.Category, cause: cause}
}

// NewDomainError creates a validation-category domain error. Most rule
// violations raised by entities are caller-fixable input problems.
func NewDomainError(code, message string) *DomainError {
	return NewCategorizedError(CategoryValidation, code, message)
}

// NewCategorizedError creates a domain error in an explicit category
func NewCategorizedError(category ErrorCategory, code, message string) *DomainError {
	return &DomainError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// NewNotFoundError creates a not-found error for the named resource
func NewNotFoundError(resource string) *DomainError {
	return NewCategorizedError(CategoryNotFound, string(CategoryNotFound), resource+" not found")
}

// NewForbiddenError creates a forbidden error with a specific code
func NewForbiddenError(code, message string) *DomainError {
	return NewCategorizedError(CategoryForbidden, code, message)
}

// NewInternalError wraps an unexpected failure. The message is safe to show
// to callers; the cause is kept for logs.
func NewInternalError(message string, cause error) *DomainError {
	return NewCategorizedError(CategoryInternal, string(CategoryInternal), message).WithCause(cause)
}

// Common domain errors
var (
	ErrUnauthenticated     = NewCategorizedError(CategoryUnauthenticated, string(CategoryUnauthenticated), "Authentication required")
	ErrForbidden           = NewCategorizedError(CategoryForbidden, string(CategoryForbidden), "Access to this resource is forbidden")
	ErrNotFound            = NewCategorizedError(CategoryNotFound, string(CategoryNotFound), "Resource not found")
	ErrValidation          = NewCategorizedError(CategoryValidation, string(CategoryValidation), "Invalid input provided")
	ErrInsufficientStock   = NewCategorizedError(CategoryInsufficientStock, string(CategoryInsufficientStock), "Insufficient stock available")
	ErrDuplicateIdentifier = NewCategorizedError(CategoryDuplicateIdentifier, string(CategoryDuplicateIdentifier), "Identifier already in use")
	ErrInternal            = NewCategorizedError(CategoryInternal, string(CategoryInternal), "Internal error")
)

// CategoryOf returns the category of err. Errors that are not domain errors
// are internal.
func CategoryOf(err error) ErrorCategory {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Category
	}
	return CategoryInternal
}
