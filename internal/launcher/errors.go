// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"fmt"
)

var (
	// ErrContainerStart is the sentinel error wrapped by StartError.
	ErrContainerStart = errors.New("container start failed")
	// ErrContainerStop is the sentinel error wrapped by StopError.
	ErrContainerStop = errors.New("container stop failed")
	// ErrAlreadyUsed is returned when Run is called on a launcher that left Idle.
	ErrAlreadyUsed = errors.New("launcher already used")
)

type (
	// StartError is returned when the container process cannot be spawned or
	// exits with a non-zero code the exit hook did not cause.
	StartError struct {
		Container string
		Cause     error
	}

	// StopError is produced by the exit hook when stopping the container fails.
	StopError struct {
		Container string
		Cause     error
	}
)

func (e *StartError) Error() string {
	return "Failed to start WireMock container"
}

func (e *StartError) Unwrap() []error { return []error{ErrContainerStart, e.Cause} }

func (e *StopError) Error() string {
	return fmt.Sprintf("Failed to remove WireMock container: %v", e.Cause)
}

func (e *StopError) Unwrap() []error { return []error{ErrContainerStop, e.Cause} }
