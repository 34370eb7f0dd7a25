package typesystem

import "fmt"

// UnknownTypeError indicates a type name was not declared
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Name)
}

func NewUnknownTypeError(name string) *UnknownTypeError {
	return &UnknownTypeError{Name: name}
}

// DeclarationError reports an invalid class declaration
type DeclarationError struct {
	Name string
	Msg  string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("cannot declare %s: %s", e.Name, e.Msg)
}

// UnifyError reports a failed inference step.
type UnifyError struct {
	T1, T2 Type
	Msg    string
}

func (e *UnifyError) Error() string {
	switch {
	case e.T1 == nil && e.T2 == nil:
		return e.Msg
	case e.Msg == "":
		return fmt.Sprintf("cannot unify %s with %s", e.T1, e.T2)
	default:
		return fmt.Sprintf("%s: %s vs %s", e.Msg, e.T1, e.T2)
	}
}
