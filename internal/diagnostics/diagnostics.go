package diagnostics

import (
	"fmt"
)

type ErrorCode string

const (
	ErrF001 ErrorCode = "F001" // Fixture cannot be read
	ErrF002 ErrorCode = "F002" // Fixture is not valid YAML or misses required fields
	ErrF003 ErrorCode = "F003" // Declaration rejected: unknown type, bad hierarchy
	ErrR001 ErrorCode = "R001" // Scope walk failed
)

// DiagnosticError is one problem found by a pipeline stage.
type DiagnosticError struct {
	Code ErrorCode
	File string
	Line int // 1-based; 0 when unknown
	Msg  string
	Err  error // Underlying cause, if any
}

func NewError(code ErrorCode, line int, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Line: line, Msg: msg}
}

// Wrap builds a diagnostic around err, keeping it for errors.Is/As.
func Wrap(code ErrorCode, line int, err error) *DiagnosticError {
	return &DiagnosticError{Code: code, Line: line, Msg: err.Error(), Err: err}
}

func (e *DiagnosticError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("%s: [%s] %s", loc, e.Code, e.Msg)
}

func (e *DiagnosticError) Unwrap() error { return e.Err }
