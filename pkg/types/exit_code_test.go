// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "one is valid", value: 1, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if tt.wantValid {
				if err != nil {
					t.Errorf("ExitCode(%d).Validate() returned error for valid value: %v", tt.value, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("ExitCode(%d).Validate() = %v, want ErrInvalidExitCode", tt.value, err)
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitSuccess.IsSuccess() {
		t.Error("ExitSuccess.IsSuccess() = false")
	}
	if ExitFailure.IsSuccess() {
		t.Error("ExitFailure.IsSuccess() = true")
	}
}

func TestExitCodeFromSignal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code ExitCode
		want bool
	}{
		{0, false},
		{1, false},
		{125, false},
		{128, false},
		{130, true},
		{143, true},
	}

	for _, tt := range tests {
		if got := tt.code.FromSignal(); got != tt.want {
			t.Errorf("ExitCode(%d).FromSignal() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestInvalidExitCodeError_Error(t *testing.T) {
	t.Parallel()

	err := &InvalidExitCodeError{Value: 300}
	want := "invalid exit code 300 (must be in range 0-255)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
