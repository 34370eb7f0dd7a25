package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrAcceptAfterStop is raised when the walker offers an element after
	// the processor signalled it wants no more.
	ErrAcceptAfterStop = errors.New("don't pass more methods if processor doesn't want to accept them")

	// ErrUnexpectedElement is raised for elements known not to be methods.
	ErrUnexpectedElement = errors.New("unexpected element")
)

// ContractViolation is the panic value for defects in the collaborating
// walker. It is not a user-facing error and is never returned.
type ContractViolation struct {
	Err    error
	Detail string
}

func (e *ContractViolation) Error() string {
	if e.Detail == "" {
		return "contract violation: " + e.Err.Error()
	}
	return fmt.Sprintf("contract violation: %s. %s", e.Err, e.Detail)
}

func (e *ContractViolation) Unwrap() error { return e.Err }

func violate(err error, format string, args ...any) {
	panic(&ContractViolation{Err: err, Detail: fmt.Sprintf(format, args...)})
}
