// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"wdee-cli/internal/process"
	"wdee-cli/internal/ui"
	"wdee-cli/pkg/types"
)

const (
	// PortProtocolTCP is the TCP transport protocol for port mappings.
	PortProtocolTCP PortProtocol = "tcp"
	// PortProtocolUDP is the UDP transport protocol for port mappings.
	PortProtocolUDP PortProtocol = "udp"
)

var (
	// ErrInvalidPortMapping is the sentinel error wrapped by InvalidPortMappingError.
	ErrInvalidPortMapping = errors.New("invalid port mapping")
	// ErrInvalidVolumeMount is the sentinel error wrapped by InvalidVolumeMountError.
	ErrInvalidVolumeMount = errors.New("invalid volume mount")
	// ErrInvalidRunOptions is the sentinel error wrapped by InvalidRunOptionsError.
	ErrInvalidRunOptions = errors.New("invalid run options")
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc = process.ExecCommandFunc

	// VolumeFormatFunc formats a volume mount for the -v flag. Podman uses
	// this to add SELinux labels.
	VolumeFormatFunc func(volume VolumeMount) string

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides the implementation shared by CLI-based engines.
	// Docker and Podman embed it; Available and Version stay on the concrete
	// types because they query engine-specific version templates.
	BaseCLIEngine struct {
		name            string
		binaryPath      string
		execCommand     ExecCommandFunc
		volumeFormatter VolumeFormatFunc
		logger          *log.Logger
		stdin           io.Reader
		stdout          io.Writer
		stderr          io.Writer
	}

	// PortProtocol represents a network transport protocol for port mappings.
	// The zero value ("") is valid and means "tcp".
	PortProtocol string

	// PortMapping publishes a container port on the host.
	PortMapping struct {
		HostPort      int
		ContainerPort int
		Protocol      PortProtocol
	}

	// VolumeMount bind-mounts a host path into the container.
	VolumeMount struct {
		HostPath      string
		ContainerPath string
		ReadOnly      bool
	}

	// InvalidPortMappingError is returned when a PortMapping has an out of
	// range port or an unknown protocol.
	InvalidPortMappingError struct {
		Value  PortMapping
		Reason string
	}

	// InvalidVolumeMountError is returned when a VolumeMount has an empty path.
	InvalidVolumeMountError struct {
		Value VolumeMount
	}

	// InvalidRunOptionsError collects every invalid field of a RunOptions.
	InvalidRunOptionsError struct {
		FieldErrors []error
	}
)

func (e *InvalidPortMappingError) Error() string {
	return fmt.Sprintf("invalid port mapping %d:%d/%s: %s", e.Value.HostPort, e.Value.ContainerPort, e.Value.Protocol, e.Reason)
}

func (e *InvalidPortMappingError) Unwrap() error { return ErrInvalidPortMapping }

func (e *InvalidVolumeMountError) Error() string {
	return fmt.Sprintf("invalid volume mount %q: host and container paths must be non-empty", e.Value.String())
}

func (e *InvalidVolumeMountError) Unwrap() error { return ErrInvalidVolumeMount }

func (e *InvalidRunOptionsError) Error() string {
	return fmt.Sprintf("invalid run options: %v", errors.Join(e.FieldErrors...))
}

func (e *InvalidRunOptionsError) Unwrap() error { return ErrInvalidRunOptions }

// Validate returns an error if either port is outside 1-65535 or the
// protocol is unknown.
func (p PortMapping) Validate() error {
	if p.HostPort < 1 || p.HostPort > 65535 {
		return &InvalidPortMappingError{Value: p, Reason: "host port must be in range 1-65535"}
	}
	if p.ContainerPort < 1 || p.ContainerPort > 65535 {
		return &InvalidPortMappingError{Value: p, Reason: "container port must be in range 1-65535"}
	}
	switch p.Protocol {
	case "", PortProtocolTCP, PortProtocolUDP:
		return nil
	default:
		return &InvalidPortMappingError{Value: p, Reason: "protocol must be tcp or udp"}
	}
}

// String returns the mapping in "host:container" form, with a "/udp"
// suffix for UDP.
func (p PortMapping) String() string {
	s := fmt.Sprintf("%d:%d", p.HostPort, p.ContainerPort)
	if p.Protocol == PortProtocolUDP {
		s += "/udp"
	}
	return s
}

// Validate returns an error if either path is empty or whitespace-only.
func (v VolumeMount) Validate() error {
	if strings.TrimSpace(v.HostPath) == "" || strings.TrimSpace(v.ContainerPath) == "" {
		return &InvalidVolumeMountError{Value: v}
	}
	return nil
}

// String returns the mount in "host:container[:ro]" form.
func (v VolumeMount) String() string {
	s := v.HostPath + ":" + v.ContainerPath
	if v.ReadOnly {
		s += ":ro"
	}
	return s
}

// Validate checks the image, the ports and the volumes.
func (o RunOptions) Validate() error {
	var errs []error
	if strings.TrimSpace(o.Image) == "" {
		errs = append(errs, errors.New("image must be non-empty"))
	}
	for _, p := range o.Ports {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, v := range o.Volumes {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidRunOptionsError{FieldErrors: errs}
	}
	return nil
}

// WithName sets the engine name used in error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.name = name
	}
}

// WithBinaryPath overrides the binary found on the PATH.
func WithBinaryPath(path string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.binaryPath = path
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// WithVolumeFormatter sets a custom volume formatter function.
func WithVolumeFormatter(fn VolumeFormatFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.volumeFormatter = fn
	}
}

// WithLogger sets the logger receiving executed command lines.
func WithLogger(l *log.Logger) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.logger = l
	}
}

// WithStdio replaces the streams a foreground container inherits.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:      binaryPath,
		execCommand:     exec.CommandContext,
		volumeFormatter: func(v VolumeMount) string { return v.String() },
		logger:          ui.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name used in error messages.
func (e *BaseCLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the path to the container engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// RunArgs constructs arguments for a container run command.
//
// Generated command: <binary> run [--rm] [--name N] [-p H:C]... [-v H:C]... <image> [command...]
func (e *BaseCLIEngine) RunArgs(opts RunOptions) []string {
	args := []string{"run"}

	if opts.Remove {
		args = append(args, "--rm")
	}

	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}

	for _, p := range opts.Ports {
		args = append(args, "-p", p.String())
	}

	for _, v := range opts.Volumes {
		args = append(args, "-v", e.volumeFormatter(v))
	}

	args = append(args, opts.Image)
	args = append(args, opts.Command...)

	return args
}

// StopArgs constructs arguments for a container stop command.
func (e *BaseCLIEngine) StopArgs(name string) []string {
	return []string{"stop", name}
}

// RemoveArgs constructs arguments for a container remove command.
func (e *BaseCLIEngine) RemoveArgs(name string, force bool) []string {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, name)
	return args
}

// CreateCommand creates an exec.Cmd for the given arguments.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	e.logger.Debug("container command", "cmd", process.CommandLine(e.binaryPath, args))
	return e.execCommand(ctx, e.binaryPath, args...)
}

// RunCommandStatus executes a command and returns only the error status.
// The command's stderr is included in the error.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := e.CreateCommand(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("command %s %v failed: %w: %s", e.binaryPath, args, err, msg)
		}
		return fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}

	return out.String(), nil
}

// Run runs a container in the foreground with inherited standard streams.
// Cancelling ctx does not kill the engine process; the container is stopped
// through Stop instead, so that the engine can shut it down cleanly.
func (e *BaseCLIEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runnerOpts := []process.Option{
		process.WithExecCommand(e.execCommand),
		process.WithLogger(e.logger),
	}
	if e.stdout != nil || e.stderr != nil || e.stdin != nil {
		runnerOpts = append(runnerOpts, process.WithStdio(e.stdin, e.stdout, e.stderr))
	}
	runner := process.NewRunner(runnerOpts...)

	code, err := runner.Run(context.WithoutCancel(ctx), process.Spec{
		Name: e.binaryPath,
		Args: e.RunArgs(opts),
	})

	result := &RunResult{ExitCode: code}
	if err != nil {
		result.ExitCode = types.ExitFailure
		result.Error = err
	}
	return result, nil
}

// Stop stops a running container.
func (e *BaseCLIEngine) Stop(ctx context.Context, name string) error {
	return e.RunCommandStatus(ctx, e.StopArgs(name)...)
}

// Remove removes a container.
func (e *BaseCLIEngine) Remove(ctx context.Context, name string, force bool) error {
	return e.RunCommandStatus(ctx, e.RemoveArgs(name, force)...)
}
