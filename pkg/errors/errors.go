// Package errors provides structured error handling for Payrun.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes.
const (
	ExitSuccess = 0 // Successful execution (row-level failures included)
	ExitGeneral = 1 // General/unknown error
	ExitInput   = 2 // Invalid input
	ExitConfig  = 3 // Missing or invalid startup configuration
)

// PayrunError is the structured error type for Payrun.
type PayrunError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *PayrunError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *PayrunError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for PayrunError.
func (e *PayrunError) Is(target error) bool {
	var t *PayrunError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &PayrunError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	// Fatal startup errors.
	ErrConfiguration = &PayrunError{
		Code:     "CONFIGURATION_ERROR",
		Message:  "missing or invalid configuration",
		ExitCode: ExitConfig,
	}

	ErrInvalidMnemonic = &PayrunError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitConfig,
	}

	// Row-level resolution errors.
	ErrUnsupportedChain = &PayrunError{
		Code:     "UNSUPPORTED_CHAIN",
		Message:  "chain is not configured",
		ExitCode: ExitInput,
	}

	ErrUnsupportedToken = &PayrunError{
		Code:     "UNSUPPORTED_TOKEN",
		Message:  "token is not configured for this chain",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &PayrunError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	ErrInvalidRecipient = &PayrunError{
		Code:     "INVALID_RECIPIENT",
		Message:  "invalid recipient address",
		ExitCode: ExitInput,
	}

	// Row-level network errors.
	ErrConnection = &PayrunError{
		Code:     "CONNECTION_ERROR",
		Message:  "failed to connect to RPC endpoint",
		ExitCode: ExitGeneral,
	}

	ErrSubmission = &PayrunError{
		Code:     "SUBMISSION_ERROR",
		Message:  "transaction rejected by network",
		ExitCode: ExitGeneral,
	}

	ErrReceiptMissing = &PayrunError{
		Code:     "RECEIPT_MISSING",
		Message:  "transaction submitted but no confirmation receipt returned",
		ExitCode: ExitGeneral,
	}

	// Batch input/output errors.
	ErrBatchInput = &PayrunError{
		Code:     "BATCH_INPUT_ERROR",
		Message:  "failed to read batch input file",
		ExitCode: ExitInput,
	}

	ErrResultWrite = &PayrunError{
		Code:     "RESULT_WRITE_ERROR",
		Message:  "failed to write result record",
		ExitCode: ExitGeneral,
	}
)

// New creates a new PayrunError with the given code and message.
func New(code, message string) *PayrunError {
	return &PayrunError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var pe *PayrunError
	if errors.As(err, &pe) {
		return &PayrunError{
			Code:       pe.Code,
			Message:    fmt.Sprintf("%s: %s", msg, pe.Message),
			Details:    pe.Details,
			Suggestion: pe.Suggestion,
			Cause:      err,
			ExitCode:   pe.ExitCode,
		}
	}

	return &PayrunError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var pe *PayrunError
	if errors.As(err, &pe) {
		return &PayrunError{
			Code:       pe.Code,
			Message:    pe.Message,
			Details:    details,
			Suggestion: pe.Suggestion,
			Cause:      pe.Cause,
			ExitCode:   pe.ExitCode,
		}
	}

	return &PayrunError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithCause attaches an underlying cause to a sentinel error while keeping
// its code, details, and exit code.
func WithCause(err, cause error) error {
	if err == nil {
		return nil
	}

	var pe *PayrunError
	if errors.As(err, &pe) {
		return &PayrunError{
			Code:       pe.Code,
			Message:    pe.Message,
			Details:    pe.Details,
			Suggestion: pe.Suggestion,
			Cause:      cause,
			ExitCode:   pe.ExitCode,
		}
	}

	return &PayrunError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Cause:    cause,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var pe *PayrunError
	if errors.As(err, &pe) {
		return &PayrunError{
			Code:       pe.Code,
			Message:    pe.Message,
			Details:    pe.Details,
			Suggestion: suggestion,
			Cause:      pe.Cause,
			ExitCode:   pe.ExitCode,
		}
	}

	return &PayrunError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var pe *PayrunError
	if errors.As(err, &pe) {
		return pe.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var pe *PayrunError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
