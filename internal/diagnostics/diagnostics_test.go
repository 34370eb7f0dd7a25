package diagnostics

import (
	"context"
	"errors"
	"testing"
)

func TestDiagnosticErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *DiagnosticError
		want string
	}{
		{"bare", NewError(ErrF002, 0, "missing calls"), "[F002] missing calls"},
		{"file", &DiagnosticError{Code: ErrF001, File: "a.yaml", Msg: "no such file"}, "a.yaml: [F001] no such file"},
		{"file and line", &DiagnosticError{Code: ErrF003, File: "a.yaml", Line: 12, Msg: "unknown type Foo"}, "a.yaml:12: [F003] unknown type Foo"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWrapUnwraps(t *testing.T) {
	err := Wrap(ErrR001, 3, context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("errors.Is(%v, context.Canceled) = false", err)
	}
	if err.Msg != context.Canceled.Error() {
		t.Errorf("Msg = %q", err.Msg)
	}
}
