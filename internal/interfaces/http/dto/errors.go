package dto

import (
	"errors"
	"net/http"

	"github.com/retailpos/backend/internal/domain/shared"
)

// Error codes returned in the envelope. Format: ERR_<CATEGORY>
const (
	ErrCodeUnauthorized        = "ERR_UNAUTHORIZED"
	ErrCodeForbidden           = "ERR_FORBIDDEN"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeInsufficientStock   = "ERR_INSUFFICIENT_STOCK"
	ErrCodeDuplicateIdentifier = "ERR_DUPLICATE_IDENTIFIER"
	ErrCodeInternal            = "ERR_INTERNAL"

	// Transport-level codes
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
	ErrCodeRouteNotFound   = "ERR_ROUTE_NOT_FOUND"
	ErrCodeUnavailable     = "ERR_SERVICE_UNAVAILABLE"
)

// categoryCodes maps each domain error category to its envelope code
var categoryCodes = map[shared.ErrorCategory]string{
	shared.CategoryUnauthenticated:     ErrCodeUnauthorized,
	shared.CategoryForbidden:           ErrCodeForbidden,
	shared.CategoryNotFound:            ErrCodeNotFound,
	shared.CategoryValidation:          ErrCodeValidation,
	shared.CategoryInsufficientStock:   ErrCodeInsufficientStock,
	shared.CategoryDuplicateIdentifier: ErrCodeDuplicateIdentifier,
	shared.CategoryInternal:            ErrCodeInternal,
}

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInsufficientStock:   http.StatusConflict,
	ErrCodeDuplicateIdentifier: http.StatusConflict,
	ErrCodeInternal:            http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// CodeForCategory returns the envelope code of a domain error category
func CodeForCategory(category shared.ErrorCategory) string {
	if code, ok := categoryCodes[category]; ok {
		return code
	}
	return ErrCodeInternal
}

// internalMessage replaces the message of internal errors so causes never leak
const internalMessage = "An unexpected error occurred"

// FromError builds the error envelope and status for err. Internal errors
// get a generic message.
func FromError(err error, requestID string) (int, Response) {
	var de *shared.DomainError
	if !errors.As(err, &de) || de.Category == shared.CategoryInternal {
		return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, internalMessage, requestID)
	}
	code := CodeForCategory(de.Category)
	resp := NewErrorResponse(code, de.Message, requestID)
	if de.Code != string(de.Category) {
		resp.Error.Reason = de.Code
	}
	return GetHTTPStatus(code), resp
}
