package errors

import (
	"errors"
	"fmt"

	pkgerrors "github.com/shiv90154/CarrerPath-sub002/pkg/errors"
)

// WorkflowError represents a client-visible failure of a payment workflow operation
type WorkflowError struct {
	Kind    string
	Message string
	OrderID string
	Cause   error
}

func (e *WorkflowError) Error() string {
	if e.OrderID != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s (order: %s) - %v", e.Kind, e.Message, e.OrderID, e.Cause)
		}
		return fmt.Sprintf("%s: %s (order: %s)", e.Kind, e.Message, e.OrderID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s - %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *WorkflowError) Unwrap() error {
	return e.Cause
}

// Code lets pkg/errors map the error onto an HTTP status.
func (e *WorkflowError) Code() string {
	return e.Kind
}

// Reason is the message surfaced to API clients.
func (e *WorkflowError) Reason() string {
	return e.Message
}

// Is matches any WorkflowError of the same kind, so errors.Is(err, ErrInvalidState) works.
func (e *WorkflowError) Is(target error) bool {
	var t *WorkflowError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Workflow error kinds
const (
	KindNotFound           = pkgerrors.ErrNotFound
	KindForbidden          = pkgerrors.ErrForbidden
	KindInvalidState       = pkgerrors.ErrInvalidState
	KindInvalidContentType = pkgerrors.ErrInvalidContentType
	KindPayloadTooLarge    = pkgerrors.ErrPayloadTooLarge
	KindAlreadyEntitled    = pkgerrors.ErrAlreadyEntitled
	KindItemNotFound       = pkgerrors.ErrItemNotFound
	KindInvalidArgument    = pkgerrors.ErrInvalidArgument
)

// Sentinels for errors.Is checks.
var (
	ErrNotFound           = &WorkflowError{Kind: KindNotFound}
	ErrForbidden          = &WorkflowError{Kind: KindForbidden}
	ErrInvalidState       = &WorkflowError{Kind: KindInvalidState}
	ErrInvalidContentType = &WorkflowError{Kind: KindInvalidContentType}
	ErrPayloadTooLarge    = &WorkflowError{Kind: KindPayloadTooLarge}
	ErrAlreadyEntitled    = &WorkflowError{Kind: KindAlreadyEntitled}
	ErrItemNotFound       = &WorkflowError{Kind: KindItemNotFound}
	ErrInvalidArgument    = &WorkflowError{Kind: KindInvalidArgument}
)

// NewOrderNotFoundError creates a new order not found error
func NewOrderNotFoundError(orderID string) *WorkflowError {
	return &WorkflowError{
		Kind:    KindNotFound,
		Message: "order not found",
		OrderID: orderID,
	}
}

// NewProofNotFoundError is returned when an order has no proof yet
func NewProofNotFoundError(orderID string) *WorkflowError {
	return &WorkflowError{
		Kind:    KindNotFound,
		Message: "no payment proof uploaded for this order",
		OrderID: orderID,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(orderID, message string) *WorkflowError {
	return &WorkflowError{
		Kind:    KindForbidden,
		Message: message,
		OrderID: orderID,
	}
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(orderID, message string) *WorkflowError {
	return &WorkflowError{
		Kind:    KindInvalidState,
		Message: message,
		OrderID: orderID,
	}
}

// NewInvalidContentTypeError creates a new invalid content type error
func NewInvalidContentTypeError(contentType string) *WorkflowError {
	return &WorkflowError{
		Kind:    KindInvalidContentType,
		Message: fmt.Sprintf("content type %q is not an accepted image type", contentType),
	}
}

// NewPayloadTooLargeError creates a new payload too large error
func NewPayloadTooLargeError(size, limit int64) *WorkflowError {
	return &WorkflowError{
		Kind:    KindPayloadTooLarge,
		Message: fmt.Sprintf("proof is %d bytes, limit is %d", size, limit),
	}
}

// NewRequestTooLargeError is used when the body was cut off before its size was known.
func NewRequestTooLargeError(limit int64) *WorkflowError {
	return &WorkflowError{
		Kind:    KindPayloadTooLarge,
		Message: fmt.Sprintf("request body exceeds the %d byte proof limit", limit),
	}
}

// NewAlreadyEntitledError creates a new already entitled error
func NewAlreadyEntitledError(itemType, itemRef string) *WorkflowError {
	return &WorkflowError{
		Kind:    KindAlreadyEntitled,
		Message: fmt.Sprintf("buyer already has access to %s %s", itemType, itemRef),
	}
}

// NewItemNotFoundError creates a new item not found error
func NewItemNotFoundError(itemType, itemRef string) *WorkflowError {
	return &WorkflowError{
		Kind:    KindItemNotFound,
		Message: fmt.Sprintf("%s %s not found in catalog", itemType, itemRef),
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string) *WorkflowError {
	return &WorkflowError{
		Kind:    KindInvalidArgument,
		Message: message,
	}
}
