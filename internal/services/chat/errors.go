// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUpstream     ErrorType = "UPSTREAM"
	ErrTypeStream       ErrorType = "STREAM"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
)

// ApologyMessage is what callers surface when retrieval or generation
// fails; upstream detail stays in the server logs.
const ApologyMessage = "Sorry, I am facing some technical difficulties. Please try again after some time."

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChannelID uint
	MessageID uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUpstreamError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeUpstream, Operation: operation, Message: msg, Cause: cause}
}

func NewStreamError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStream, Operation: operation, Message: msg, Cause: cause}
}

func NewNotFoundError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}

func NewUnauthorizedError(ownerID, channelID uint) *ChatError {
	return &ChatError{
		Type:      ErrTypeUnauthorized,
		Operation: "authorization",
		Message:   "channel not found or unauthorized",
		ChannelID: channelID,
	}
}

// TypeOf extracts the ChatError type, defaulting to UPSTREAM for foreign
// errors so raw upstream failures never leak past the pipeline boundary.
func TypeOf(err error) ErrorType {
	var ce *ChatError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUpstream
}
