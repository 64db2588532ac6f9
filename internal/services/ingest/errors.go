// File: internal/services/ingest/errors.go
package ingest

import "fmt"

type ErrorType string

const (
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeUpstream       ErrorType = "UPSTREAM"
	ErrTypePartialCleanup ErrorType = "PARTIAL_CLEANUP"
	ErrTypeNotFound       ErrorType = "NOT_FOUND"
)

type IngestError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *IngestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Ingest %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Ingest %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *IngestError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *IngestError {
	return &IngestError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUpstreamError(operation, msg string, cause error) *IngestError {
	return &IngestError{Type: ErrTypeUpstream, Operation: operation, Message: msg, Cause: cause}
}

func NewPartialCleanupError(operation, msg string, cause error) *IngestError {
	return &IngestError{Type: ErrTypePartialCleanup, Operation: operation, Message: msg, Cause: cause}
}

func NewNotFoundError(operation, msg string) *IngestError {
	return &IngestError{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}
