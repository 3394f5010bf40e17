package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(TypeInput, "bad quantity")
	if got := plain.Error(); got != "[INPUT_ERROR] bad quantity" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(TypeNetwork, "quote call failed", fmt.Errorf("connection refused"))
	if got := wrapped.Error(); !strings.Contains(got, "connection refused") {
		t.Errorf("wrapped error lost its cause: %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	wrapped := Wrap(TypeStorage, "query failed", cause)
	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is did not reach the cause")
	}
}

func TestIsType(t *testing.T) {
	err := NotFound("work order", "WO-1")
	if !IsType(err, TypeNotFound) {
		t.Error("NotFound did not produce NOT_FOUND")
	}
	if IsType(err, TypeInput) {
		t.Error("IsType matched the wrong type")
	}
	if IsType(fmt.Errorf("plain"), TypeNotFound) {
		t.Error("IsType matched a non-domain error")
	}
	if IsType(nil, TypeNotFound) {
		t.Error("IsType matched nil")
	}
}

func TestWithContext(t *testing.T) {
	err := Consistency("duplicate marker").WithContext("marker", "woitem:abc")
	if err.Context["marker"] != "woitem:abc" {
		t.Errorf("context = %+v", err.Context)
	}
}
