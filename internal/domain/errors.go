package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Setup errors, recoverable by re-prompting the user
	CodeMissingInput ErrorCode = "MISSING_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"

	// Question generation errors
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	CodeTransientFailure  ErrorCode = "TRANSIENT_FAILURE"
	CodeExhaustedRetries  ErrorCode = "EXHAUSTED_RETRIES"

	// Session errors
	CodeInvalidState         ErrorCode = "INVALID_STATE"
	CodeStaleAnswer          ErrorCode = "STALE_ANSWER"
	CodeConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED"
)

// ExhaustedRetriesMessage is the user-facing text once generation gives up.
const ExhaustedRetriesMessage = "Something went wrong, please try again later."

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a key/value pair rendered in error responses.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first DomainError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Sentinels usable with errors.Is.
var (
	ErrMalformedResponse = NewError(CodeMalformedResponse, "malformed response", nil)
	ErrTransientFailure  = NewError(CodeTransientFailure, "transient failure", nil)
	ErrExhaustedRetries  = NewError(CodeExhaustedRetries, ExhaustedRetriesMessage, nil)
	ErrStaleAnswer       = NewError(CodeStaleAnswer, "stale answer", nil)
	ErrInvalidState      = NewError(CodeInvalidState, "invalid state", nil)
	ErrNotFound          = NewError(CodeNotFound, "not found", nil)
)

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewMalformedResponseError(message string, cause error) *DomainError {
	return NewError(CodeMalformedResponse, message, cause)
}

func NewTransientFailureError(cause error) *DomainError {
	return NewError(CodeTransientFailure, "question generator request failed", cause)
}

func NewExhaustedRetriesError(attempts int, cause error) *DomainError {
	return NewError(CodeExhaustedRetries, ExhaustedRetriesMessage, cause).WithContext("attempts", attempts)
}

func NewInvalidStateError(message string) *DomainError {
	return NewError(CodeInvalidState, message, nil)
}

func NewStaleAnswerError(expected, got int) *DomainError {
	return NewError(CodeStaleAnswer, fmt.Sprintf("question %d is not the current question", got), nil).
		WithContext("current_index", expected)
}

func NewConfirmationRequiredError() *DomainError {
	return NewError(CodeConfirmationRequired, "quitting a quiz in progress must be confirmed", nil)
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects per-field errors from a single form step.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasField reports whether a field error was recorded for field.
func (v ValidationErrors) HasField(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func NewMissingInputError(field, message string) FieldError {
	return FieldError{Field: field, Code: CodeMissingInput, Message: message}
}

func NewFieldValidationError(field, message string, value interface{}) FieldError {
	return FieldError{Field: field, Code: CodeValidation, Message: message, Value: value}
}

// NewValidationError wraps a single field error into ValidationErrors.
func NewValidationError(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{NewFieldValidationError(field, message, value)}
}
