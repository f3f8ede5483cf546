// Package errs defines the error taxonomy shared by the extraction engine
// and the HTTP layer.
package errs

import (
	"errors"
	"fmt"
)

// Code classifies an extraction error.
type Code string

const (
	// CodeUnknownField is returned when a caller requests a field outside
	// the known vocabulary. Caller error, never retried.
	CodeUnknownField Code = "UNKNOWN_FIELD"

	// CodeExtractionFailure is returned when the model response fails JSON
	// parsing, schema validation, or a type check. Retrying will not fix a
	// contract violation caused by ambiguous input, so it is never retried.
	CodeExtractionFailure Code = "EXTRACTION_FAILURE"

	// CodeInvalidAmount is returned when normalization rejects an amount
	// (negative or non-numeric).
	CodeInvalidAmount Code = "INVALID_AMOUNT"

	// CodeProviderError marks a transient provider failure (network,
	// timeout, rate limit). Retryable under the configured policy.
	CodeProviderError Code = "PROVIDER_ERROR"

	// CodeExtractionUnavailable is returned after the retry budget against
	// the provider is exhausted.
	CodeExtractionUnavailable Code = "EXTRACTION_UNAVAILABLE"

	// CodeUnsupportedFile is returned for uploads outside the accepted
	// image/PDF formats.
	CodeUnsupportedFile Code = "UNSUPPORTED_FILE"
)

// Error is a structured extraction error.
type Error struct {
	Code      Code
	Message   string
	Retryable bool

	// RawResponse carries the offending model output for diagnostics when
	// Code is CodeExtractionFailure.
	RawResponse string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewUnknownField reports a requested field outside the vocabulary.
func NewUnknownField(name string) *Error {
	return &Error{
		Code:    CodeUnknownField,
		Message: fmt.Sprintf("unknown field %q", name),
	}
}

// NewExtractionFailure reports a model response that violated the contract.
// The raw response is attached for diagnostics.
func NewExtractionFailure(reason string, raw string, cause error) *Error {
	return &Error{
		Code:        CodeExtractionFailure,
		Message:     reason,
		RawResponse: raw,
		cause:       cause,
	}
}

// NewInvalidAmount reports an amount rejected during normalization.
func NewInvalidAmount(value string) *Error {
	return &Error{
		Code:    CodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %q: must be a non-negative number", value),
	}
}

// NewProviderError wraps a transient provider failure.
func NewProviderError(cause error) *Error {
	return &Error{
		Code:      CodeProviderError,
		Message:   "provider call failed",
		Retryable: true,
		cause:     cause,
	}
}

// NewExtractionUnavailable reports retry-budget exhaustion against the provider.
func NewExtractionUnavailable(attempts int, cause error) *Error {
	return &Error{
		Code:    CodeExtractionUnavailable,
		Message: fmt.Sprintf("provider unavailable after %d attempts", attempts),
		cause:   cause,
	}
}

// NewUnsupportedFile reports an upload in an unaccepted format.
func NewUnsupportedFile(detail string) *Error {
	return &Error{
		Code:    CodeUnsupportedFile,
		Message: fmt.Sprintf("unsupported file: %s", detail),
	}
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// CodeOf returns the taxonomy code of err, or empty string for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps an error to the status the endpoint layer should return.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeUnknownField, CodeUnsupportedFile:
		return 400
	case CodeExtractionFailure, CodeInvalidAmount:
		return 422
	case CodeExtractionUnavailable, CodeProviderError:
		return 503
	default:
		return 500
	}
}
