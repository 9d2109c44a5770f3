// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load configuration"},
			expected: "failed to load configuration",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "./wdee-config.yaml",
			},
			expected: "failed to load configuration: ./wdee-config.yaml",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "start container",
				Cause:     errors.New("port is already allocated"),
			},
			expected: "failed to start container: port is already allocated",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "./wdee-config.yaml",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load configuration: ./wdee-config.yaml: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("build extensions").Wrap(sentinel).Build()

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	inner := errors.New("exit status 1")
	middle := &wrapped{msg: "gradle failed", cause: inner}
	err := &ActionableError{
		Operation:   "build extensions",
		Suggestions: []string{"Check the compiler output", "Check your JDK"},
		Cause:       middle,
	}

	short := err.Format(false)
	if !strings.Contains(short, "  • Check the compiler output") {
		t.Errorf("Format(false) missing suggestion:\n%s", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain:\n%s", short)
	}

	long := err.Format(true)
	for _, want := range []string{"Error chain:", "1. gradle failed", "2. exit status 1"} {
		if !strings.Contains(long, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, long)
		}
	}
}

func TestActionableError_Issue(t *testing.T) {
	err := NewErrorContext().WithOperation("start container").WithIssue(ContainerStartFailedId).Build()
	if got := err.Issue(); got == nil || got.Id() != ContainerStartFailedId {
		t.Errorf("Issue() = %v, want catalog entry %d", got, ContainerStartFailedId)
	}

	if (&ActionableError{Operation: "x"}).Issue() != nil {
		t.Error("Issue() without an id should be nil")
	}
}

func TestErrorContext_Build(t *testing.T) {
	cause := errors.New("boom")
	err := NewErrorContext().
		WithOperation("load configuration").
		WithResource("wdee-config.yaml").
		WithSuggestion("one").
		WithSuggestions("two", "three").
		Wrap(cause).
		Build()

	if err.Operation != "load configuration" || err.Resource != "wdee-config.yaml" {
		t.Errorf("unexpected operation/resource: %+v", err)
	}
	if len(err.Suggestions) != 3 {
		t.Errorf("Suggestions = %v, want 3 entries", err.Suggestions)
	}
	if !errors.Is(err, cause) {
		t.Error("Build() should keep the cause")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want nil", err)
	}
}

func TestErrorContext_WrapWithResource(t *testing.T) {
	err := NewErrorContext().
		WithOperation("remove container").
		WithResource("wiremock").
		Wrap(errors.New("denied")).
		Build()
	if got := err.Error(); got != "failed to remove container: wiremock: denied" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	ctx := NewErrorContext().WithOperation("copy source").WithSuggestion("Check the path")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	ctx.WithSuggestion("later")
	err2 := ctx.Wrap(errors.New("error 2")).Build()

	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("reused context should allow different causes")
	}
	if len(err1.Suggestions) != 1 {
		t.Errorf("earlier build should not see later suggestions, got %v", err1.Suggestions)
	}
}

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.cause }
