// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyValue   = errors.New("value cannot be empty")

	// Pipeline errors
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrDateParse         = errors.New("date parse error")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrImputation        = errors.New("imputation undefined")
	ErrFeatureShape      = errors.New("feature shape mismatch")
	ErrStoreWrite        = errors.New("store write failure")
	ErrSnapshotMissing   = errors.New("scored snapshot missing")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "source", "sync", "feature", "model"
	Op      string // Operation that failed, e.g., "ReadTable", "ReplaceAll"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Source adapter errors
var (
	ErrSheetNotFound   = NewDomainError("source", "ReadTable", ErrSourceUnavailable, "worksheet not found")
	ErrSheetEmpty      = NewDomainError("source", "ReadTable", ErrSchemaMismatch, "worksheet has no header row")
	ErrMissingColumn   = NewDomainError("source", "ReadTable", ErrSchemaMismatch, "expected column absent")
	ErrSourceExhausted = NewDomainError("source", "ReadTable", ErrSourceUnavailable, "spreadsheet provider unavailable after retries")
)

// Synchronizer errors
var (
	ErrZeroTotalClasses = NewDomainError("sync", "Coerce", ErrDivisionByZero, "total_classes is zero")
	ErrBadDate          = NewDomainError("sync", "Coerce", ErrDateParse, "date is not a valid DD-MM-YYYY calendar date")
	ErrBadNumeric       = NewDomainError("sync", "Coerce", ErrInvalidInput, "cell is not numeric")
	ErrReplaceFailed    = NewDomainError("sync", "ReplaceAll", ErrStoreWrite, "full refresh failed, table must be resynced")
)

// Assembler and scorer errors
var (
	ErrEmptyColumn     = NewDomainError("feature", "Impute", ErrImputation, "column has no non-null values")
	ErrNoStudents      = NewDomainError("feature", "Assemble", ErrEmptyValue, "students table is empty")
	ErrUnknownCategory = NewDomainError("model", "Encode", ErrFeatureShape, "category value unseen at training time")
	ErrColumnDrift     = NewDomainError("model", "Score", ErrFeatureShape, "feature columns disagree with classifier input")
)

// Mentor and notification errors
var (
	ErrMentorNotFound    = NewDomainError("mentor", "Find", ErrNotFound, "mentor not found")
	ErrBadCredentials    = NewDomainError("mentor", "Login", ErrUnauthorized, "invalid email or password")
	ErrNoMailCredentials = NewDomainError("notify", "Send", ErrInvalidInput, "mentor mail credentials not configured")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue)
}

// IsPipelineFatal reports whether the error ends the current pipeline run.
// Imputation and shape errors cannot be retried without fixing the data.
func IsPipelineFatal(err error) bool {
	return errors.Is(err, ErrImputation) ||
		errors.Is(err, ErrFeatureShape)
}

// IsRetryable checks if the operation can be retried as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrStoreWrite)
}
