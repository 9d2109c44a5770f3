// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wdee-cli/pkg/types"
)

const (
	EngineTypePodman EngineType = "podman"
	EngineTypeDocker EngineType = "docker"
)

var (
	// ErrNoEngineAvailable is the sentinel error wrapped by EngineNotAvailableError.
	ErrNoEngineAvailable = errors.New("no container engine available")
	// ErrInvalidEngineType is the sentinel error wrapped by InvalidEngineTypeError.
	ErrInvalidEngineType = errors.New("invalid container engine type")
)

type (
	// Engine defines the container operations used to serve WireMock.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available checks if the engine binary is installed and responding.
		Available() bool
		Version(ctx context.Context) (string, error)

		// Run starts a container in the foreground and blocks until it exits.
		// A non-zero exit code is reported in RunResult, not as an error.
		Run(ctx context.Context, opts RunOptions) (*RunResult, error)
		// Stop stops the named container.
		Stop(ctx context.Context, name string) error
		// Remove removes the named container.
		Remove(ctx context.Context, name string, force bool) error
	}

	// RunOptions contains options for running a container.
	RunOptions struct {
		Image   string
		Command []string
		Name    string
		// Remove automatically removes the container after exit.
		Remove  bool
		Ports   []PortMapping
		Volumes []VolumeMount
	}

	// RunResult contains the result of running a container.
	RunResult struct {
		ExitCode types.ExitCode
		// Error is set when the engine process could not be started or waited on.
		Error error
	}

	// EngineType identifies the container engine type.
	EngineType string

	// InvalidEngineTypeError is returned when an EngineType is not recognized.
	InvalidEngineTypeError struct {
		Value EngineType
	}

	// EngineNotAvailableError is returned when neither the preferred engine
	// nor its fallback can be used.
	EngineNotAvailableError struct {
		Engine EngineType
		Reason string
	}
)

func (e *InvalidEngineTypeError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman)", e.Value)
}

func (e *InvalidEngineTypeError) Unwrap() error { return ErrInvalidEngineType }

// Validate returns an error if the EngineType is not docker or podman.
func (t EngineType) Validate() error {
	switch t {
	case EngineTypeDocker, EngineTypePodman:
		return nil
	default:
		return &InvalidEngineTypeError{Value: t}
	}
}

func (t EngineType) String() string { return string(t) }

// ParseEngineType converts a flag value into an EngineType.
func ParseEngineType(s string) (EngineType, error) {
	t := EngineType(strings.ToLower(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (e *EngineNotAvailableError) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

func (e *EngineNotAvailableError) Unwrap() error { return ErrNoEngineAvailable }

// NewEngine creates the preferred engine, falling back to the other one when
// the preferred engine is not available. The options apply to both.
func NewEngine(preferredType EngineType, opts ...BaseCLIEngineOption) (Engine, error) {
	if err := preferredType.Validate(); err != nil {
		return nil, err
	}

	docker := func() Engine { return NewDockerEngine(opts...) }
	podman := func() Engine { return NewPodmanEngine(opts...) }

	candidates := []func() Engine{docker, podman}
	fallback := "podman"
	if preferredType == EngineTypePodman {
		candidates = []func() Engine{podman, docker}
		fallback = "docker"
	}

	for _, create := range candidates {
		if engine := create(); engine.Available() {
			return engine, nil
		}
	}

	return nil, &EngineNotAvailableError{
		Engine: preferredType,
		Reason: fmt.Sprintf("%s is not installed or not accessible, and %s fallback is also not available", preferredType, fallback),
	}
}
