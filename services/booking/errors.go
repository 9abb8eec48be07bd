package booking

import (
	"errors"
	"fmt"
)

// InvalidStateTransitionError reports an operation attempted against a record
// whose current status does not permit it. Required names the status the
// operator needs the record to be in.
type InvalidStateTransitionError struct {
	Entity   string
	ID       string
	Current  string
	Required string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s %s is %s; operation requires status %s", e.Entity, e.ID, e.Current, e.Required)
}

// NotFoundError reports a missing booking or payment.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// GatewayError wraps a failed external payment call. The operation that hit
// it was aborted with no local state change beyond failure notes.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsInvalidStateTransition reports whether err is an InvalidStateTransitionError.
func IsInvalidStateTransition(err error) bool {
	var target *InvalidStateTransitionError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsGatewayError reports whether err is a GatewayError.
func IsGatewayError(err error) bool {
	var target *GatewayError
	return errors.As(err, &target)
}
