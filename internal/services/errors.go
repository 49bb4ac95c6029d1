// Package services provides the business logic layer between handlers and
// the analytics packages: caching, history, events and archiving happen here.
package services

import (
	"errors"

	"github.com/hydroeval/hydroeval/internal/analytics"
)

// Error codes
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInsufficientData   = "INSUFFICIENT_DATA"
	CodeInvalidMethod      = "INVALID_METHOD"
	CodeHistoryUnavailable = "HISTORY_UNAVAILABLE"
	CodeArchiveUnavailable = "ARCHIVE_UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// methodFields are the validation fields that name an algorithm choice
var methodFields = map[string]bool{
	"kind":   true,
	"method": true,
	"model":  true,
}

// fromAnalytics converts an analytics error into a ServiceError
func fromAnalytics(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var verr *analytics.ValidationError
	if errors.As(err, &verr) {
		code := CodeInvalidInput
		if methodFields[verr.Field] {
			code = CodeInvalidMethod
		}
		return NewServiceErrorWithDetails(code, verr.Error(), map[string]interface{}{"field": verr.Field})
	}

	var ierr *analytics.InsufficientDataError
	if errors.As(err, &ierr) {
		return NewServiceErrorWithDetails(CodeInsufficientData, ierr.Error(), map[string]interface{}{
			"required":  ierr.Required,
			"available": ierr.Available,
		})
	}

	return NewServiceError(CodeInternal, err.Error())
}
