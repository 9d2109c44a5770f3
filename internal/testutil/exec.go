// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/exp/slices"
)

const (
	envWantHelper = "GO_WANT_HELPER_PROCESS"
	envExitCode   = "GO_HELPER_EXIT_CODE"
	envStdout     = "GO_HELPER_STDOUT"
	envStderr     = "GO_HELPER_STDERR"
	envCreate     = "GO_HELPER_CREATE_FILE"
	envBlock      = "GO_HELPER_BLOCK"
)

type (
	// CommandRecorder captures the commands passed to an ExecCommandFunc and
	// answers each one with a re-run of the test binary that behaves as
	// configured. Every package using it must declare:
	//
	//	func TestHelperProcess(t *testing.T) { testutil.HelperProcess() }
	CommandRecorder struct {
		mu          sync.Mutex
		invocations []Invocation
		behaviors   map[string]Behavior
		fallback    Behavior
	}

	// Invocation is a single recorded command.
	Invocation struct {
		Name string
		Args []string
	}

	// Behavior configures how the helper process answers.
	Behavior struct {
		ExitCode int
		Stdout   string
		Stderr   string
		// CreateFile is created (relative to the command's directory) before
		// exiting, to simulate a tool producing an artifact.
		CreateFile string
		// Block keeps the process alive until it is signaled or a minute passes.
		Block bool
	}
)

// NewCommandRecorder creates a recorder whose commands succeed silently.
func NewCommandRecorder() *CommandRecorder {
	return &CommandRecorder{behaviors: make(map[string]Behavior)}
}

// SetDefault sets the behavior of commands without a specific one.
func (r *CommandRecorder) SetDefault(b Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = b
}

// On sets the behavior of commands whose first argument is subcommand.
func (r *CommandRecorder) On(subcommand string, b Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[subcommand] = b
}

// CommandFunc returns a function usable wherever an exec.CommandContext
// replacement is accepted.
func (r *CommandRecorder) CommandFunc(t testing.TB) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		r.mu.Lock()
		r.invocations = append(r.invocations, Invocation{Name: name, Args: slices.Clone(args)})
		b := r.fallback
		if len(args) > 0 {
			if specific, ok := r.behaviors[args[0]]; ok {
				b = specific
			}
		}
		r.mu.Unlock()

		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			envWantHelper + "=1",
			envExitCode + "=" + strconv.Itoa(b.ExitCode),
			envStdout + "=" + b.Stdout,
			envStderr + "=" + b.Stderr,
			envCreate + "=" + b.CreateFile,
		}
		if b.Block {
			cmd.Env = append(cmd.Env, envBlock+"=1")
		}
		return cmd
	}
}

// Invocations returns a copy of every recorded command.
func (r *CommandRecorder) Invocations() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.invocations)
}

// Subcommands returns the first argument of every recorded command, in order.
func (r *CommandRecorder) Subcommands() []string {
	var subs []string
	for _, inv := range r.Invocations() {
		if len(inv.Args) > 0 {
			subs = append(subs, inv.Args[0])
		}
	}
	return subs
}

// Find returns the last invocation with the given first argument.
func (r *CommandRecorder) Find(subcommand string) (Invocation, bool) {
	invs := r.Invocations()
	for i := len(invs) - 1; i >= 0; i-- {
		if len(invs[i].Args) > 0 && invs[i].Args[0] == subcommand {
			return invs[i], true
		}
	}
	return Invocation{}, false
}

// HasArgPair reports whether args contain flag immediately followed by value.
func HasArgPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// HelperProcess acts out the Behavior passed through the environment. It
// returns immediately unless the test binary was started by a
// CommandRecorder.
func HelperProcess() {
	if os.Getenv(envWantHelper) != "1" {
		return
	}

	if out := os.Getenv(envStdout); out != "" {
		fmt.Fprint(os.Stdout, out)
	}
	if out := os.Getenv(envStderr); out != "" {
		fmt.Fprint(os.Stderr, out)
	}
	if rel := os.Getenv(envCreate); rel != "" {
		path := filepath.FromSlash(rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			_ = os.WriteFile(path, []byte("artifact"), 0o644)
		}
	}
	if os.Getenv(envBlock) == "1" {
		time.Sleep(time.Minute)
	}

	code, _ := strconv.Atoi(strings.TrimSpace(os.Getenv(envExitCode)))
	os.Exit(code)
}
