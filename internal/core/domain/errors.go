package domain

import (
	"errors"
	"fmt"
)

// RemoteOperationError is the single failure kind produced by the order
// service transports. Message is meant for display.
type RemoteOperationError struct {
	Op      Operation
	Message string
	Cause   error
}

func (e *RemoteOperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Cause
}

func NewRemoteError(op Operation, message string, cause error) *RemoteOperationError {
	return &RemoteOperationError{Op: op, Message: message, Cause: cause}
}

// DisplayMessage returns the human-readable message for err.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var remoteErr *RemoteOperationError
	if errors.As(err, &remoteErr) && remoteErr.Message != "" {
		return remoteErr.Message
	}
	return err.Error()
}

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrItemNotInCart    = errors.New("item not in cart")
	ErrCartChanged      = errors.New("cart changed during checkout")
)
