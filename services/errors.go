package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a workflow operation failed.
type ErrorKind string

const (
	KindInvalidTransition  ErrorKind = "InvalidTransition"
	KindMissingEmployee    ErrorKind = "MissingEmployee"
	KindUnresolvedEmployee ErrorKind = "UnresolvedEmployee"
	KindMissingColourCode  ErrorKind = "MissingColourCode"
	KindForbidden          ErrorKind = "Forbidden"
	KindStoreUnavailable   ErrorKind = "StoreUnavailable"
)

// WorkflowError carries the failure kind plus an operator-facing message.
// Two WorkflowErrors match under errors.Is when their kinds are equal.
type WorkflowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func (e *WorkflowError) Is(target error) bool {
	t, ok := target.(*WorkflowError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidTransition  = &WorkflowError{Kind: KindInvalidTransition, Message: "this status change is not allowed"}
	ErrMissingEmployee    = &WorkflowError{Kind: KindMissingEmployee, Message: "employee code is required"}
	ErrUnresolvedEmployee = &WorkflowError{Kind: KindUnresolvedEmployee, Message: "invalid employee code, try again"}
	ErrMissingColourCode  = &WorkflowError{Kind: KindMissingColourCode, Message: "colour code is required to mark this order as Ready"}
	ErrForbidden          = &WorkflowError{Kind: KindForbidden, Message: "only admins can complete orders"}
	ErrStoreUnavailable   = &WorkflowError{Kind: KindStoreUnavailable, Message: "order store unavailable, check the connection and retry"}
)

// Front-end errors outside the workflow taxonomy.
var (
	ErrDuplicateOrder   = errors.New("this order already exists, duplicate entries are not allowed")
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	// Returned when the store already holds an order with the candidate id.
	ErrTransactionIDTaken = errors.New("transaction id already in use, pick another sequence number")
	ErrUpdateCancelled    = errors.New("status update abandoned while waiting for another update on the same order")
)

// ValidationError reports a rejected add-order form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newWorkflowError(base *WorkflowError, format string, args ...interface{}) *WorkflowError {
	return &WorkflowError{Kind: base.Kind, Message: fmt.Sprintf(format, args...)}
}

func storeUnavailable(err error) *WorkflowError {
	return &WorkflowError{Kind: KindStoreUnavailable, Message: ErrStoreUnavailable.Message, Err: err}
}
