// SPDX-License-Identifier: MPL-2.0

// Package process starts external tools (the Gradle wrapper, the container
// CLI) with inherited standard streams and reports how they exited.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"wdee-cli/internal/ui"
	"wdee-cli/pkg/platform"
	"wdee-cli/pkg/types"
)

var (
	// ErrStart is the sentinel error wrapped by StartError.
	ErrStart = errors.New("failed to start process")
	// ErrNotStarted is returned by Handle methods called on a zero Handle.
	ErrNotStarted = errors.New("process not started")
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Spec describes a process to start.
	Spec struct {
		Name string
		Args []string
		// Dir is the working directory. Empty means the current one.
		Dir string
		// Env is appended to the parent environment.
		Env []string
	}

	// Option configures a Runner.
	Option func(*Runner)

	// Runner spawns processes whose standard streams are wired to the
	// runner's streams, by default the parent's.
	Runner struct {
		execCommand ExecCommandFunc
		logger      *log.Logger
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer
		goos        string
	}

	// Handle is a started process.
	Handle struct {
		cmd  *exec.Cmd
		goos string

		once     sync.Once
		exitCode types.ExitCode
		err      error
	}

	// StartError is returned when a process cannot be spawned.
	StartError struct {
		CommandLine string
		Cause       error
	}
)

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.CommandLine, e.Cause)
}

func (e *StartError) Unwrap() []error { return []error{ErrStart, e.Cause} }

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(r *Runner) { r.execCommand = fn }
}

// WithLogger sets the logger that receives the spawned command lines.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithStdio replaces the inherited standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithGOOS overrides the host OS used to pick the stop strategy.
func WithGOOS(goos string) Option {
	return func(r *Runner) { r.goos = goos }
}

// NewRunner creates a Runner inheriting the parent's standard streams.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		execCommand: exec.CommandContext,
		logger:      ui.DiscardLogger(),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		goos:        platform.Current(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start spawns the process described by spec. The context is handed to the
// exec function; callers that must outlive cancellation pass
// context.WithoutCancel.
func (r *Runner) Start(ctx context.Context, spec Spec) (*Handle, error) {
	line := CommandLine(spec.Name, spec.Args)

	cmd := r.execCommand(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	r.logger.Debug("starting process", "cmd", line, "dir", spec.Dir)
	if err := cmd.Start(); err != nil {
		return nil, &StartError{CommandLine: line, Cause: err}
	}

	return &Handle{cmd: cmd, goos: r.goos}, nil
}

// Run starts the process and waits for it to exit.
func (r *Runner) Run(ctx context.Context, spec Spec) (types.ExitCode, error) {
	h, err := r.Start(ctx, spec)
	if err != nil {
		return types.ExitFailure, err
	}
	return h.Wait()
}

// Pid returns the operating system process id.
func (h *Handle) Pid() int {
	if h == nil || h.cmd == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Wait blocks until the process exits. A non-zero exit is reported through
// the exit code; the error is only set for infrastructure failures. Wait
// may be called more than once.
func (h *Handle) Wait() (types.ExitCode, error) {
	if h == nil || h.cmd == nil {
		return types.ExitFailure, ErrNotStarted
	}
	h.once.Do(func() {
		err := h.cmd.Wait()
		if err == nil {
			h.exitCode = types.ExitSuccess
			return
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			h.exitCode = exitCodeOf(exitErr)
			return
		}
		h.exitCode = types.ExitFailure
		h.err = fmt.Errorf("wait for process %d: %w", h.Pid(), err)
	})
	return h.exitCode, h.err
}

// Stop asks the process to terminate: an interrupt on POSIX hosts, a kill
// on Windows where interrupts cannot be delivered.
func (h *Handle) Stop() error {
	if h == nil || h.cmd == nil || h.cmd.Process == nil {
		return ErrNotStarted
	}
	var err error
	if platform.IsWindows(h.goos) {
		err = h.cmd.Process.Kill()
	} else {
		err = h.cmd.Process.Signal(os.Interrupt)
	}
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stop process %d: %w", h.Pid(), err)
	}
	return nil
}

// exitCodeOf maps a signal death (ExitCode -1) onto the 128+N convention.
func exitCodeOf(exitErr *exec.ExitError) types.ExitCode {
	if code := exitErr.ExitCode(); code >= 0 {
		return types.ExitCode(code)
	}
	if sig, ok := signalOf(exitErr); ok {
		return types.ExitCode(128 + sig)
	}
	return types.ExitFailure
}

// CommandLine renders name and args as a bash-quoted command line for logs.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{name}, args...) {
		q, err := syntax.Quote(s, syntax.LangBash)
		if err != nil {
			// Only strings holding NUL bytes cannot be quoted.
			q = fmt.Sprintf("%q", s)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}
