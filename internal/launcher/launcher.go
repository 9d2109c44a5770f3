// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"wdee-cli/internal/config"
	"wdee-cli/internal/container"
	"wdee-cli/internal/ui"

	"github.com/charmbracelet/log"
)

// Mount points used by the WireMock image.
const (
	MappingsMountPath   = "/home/wiremock/mappings"
	FilesMountPath      = "/home/wiremock/__files"
	ExtensionsMountPath = "/var/wiremock/extensions/"
)

type (
	// Option configures a Launcher.
	Option func(*Launcher)

	// Launcher runs one WireMock container in the foreground.
	Launcher struct {
		cc      *config.Context
		engine  container.Engine
		printer *ui.Printer
		logger  *log.Logger
		signals []os.Signal

		state     atomic.Int32
		hookOnce  sync.Once
		hookFired atomic.Bool
		hookMu    sync.Mutex
		hookErr   error
	}
)

// WithPrinter sets the printer for user-facing diagnostics.
func WithPrinter(p *ui.Printer) Option {
	return func(l *Launcher) {
		if p != nil {
			l.printer = p
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSignals replaces the signals that trigger the exit hook. With an
// empty list no signal is relayed and only parent context cancellation
// fires the hook.
func WithSignals(sigs ...os.Signal) Option {
	return func(l *Launcher) {
		l.signals = sigs
	}
}

// New creates a launcher for the container described by cc.
func New(cc *config.Context, engine container.Engine, opts ...Option) *Launcher {
	l := &Launcher{
		cc:      cc,
		engine:  engine,
		printer: ui.NewPrinter(os.Stdout),
		logger:  ui.DiscardLogger(),
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current lifecycle state.
func (l *Launcher) State() State {
	return State(l.state.Load())
}

// HookErr returns the error produced by the exit hook, if it fired and failed.
func (l *Launcher) HookErr() error {
	l.hookMu.Lock()
	defer l.hookMu.Unlock()
	return l.hookErr
}

// RunOptions returns the container options derived from the context.
func (l *Launcher) RunOptions() container.RunOptions {
	return container.RunOptions{
		Image:   l.cc.Image,
		Command: l.cc.JarRun.ServerCLOptions,
		Name:    l.cc.JarRun.ContainerName,
		Remove:  true,
		Ports: []container.PortMapping{
			{HostPort: l.cc.JarRun.HostPort, ContainerPort: l.cc.ContainerPort},
		},
		Volumes: []container.VolumeMount{
			{HostPath: l.cc.MappingsDir, ContainerPath: MappingsMountPath},
			{HostPath: l.cc.FilesDir, ContainerPath: FilesMountPath},
			{HostPath: l.cc.OutputDir, ContainerPath: ExtensionsMountPath},
		},
	}
}

// Run starts the container and blocks until it exits. It returns a
// *StartError when the container could not be started or exited with a
// non-zero code that the exit hook did not cause.
func (l *Launcher) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(StateIdle), int32(StateStarting)) {
		return fmt.Errorf("%w: launcher is %s", ErrAlreadyUsed, l.State())
	}

	name := l.cc.JarRun.ContainerName
	if err := ctx.Err(); err != nil {
		l.state.Store(int32(StateFailed))
		return &StartError{Container: name, Cause: err}
	}

	l.printer.Println("")
	l.printer.Printf(ui.IconRocket, "Starting WireMock container '%s'...", name)

	l.removeStale(ctx, name)

	hookCtx, release := l.hookContext(ctx)
	defer release()
	disarm := make(chan struct{})
	hookDone := make(chan struct{})
	go func() {
		defer close(hookDone)
		select {
		case <-hookCtx.Done():
			l.fireHook(ctx, name, release)
		case <-disarm:
		}
	}()

	l.state.CompareAndSwap(int32(StateStarting), int32(StateRunning))
	result, err := l.engine.Run(ctx, l.RunOptions())

	close(disarm)
	<-hookDone

	if cause := l.startFailure(result, err); cause != nil {
		l.printer.Printf(ui.IconError, "Failed to start WireMock container: %v", cause)
		l.state.Store(int32(StateFailed))
		return &StartError{Container: name, Cause: cause}
	}

	l.state.Store(int32(StateStopped))
	return nil
}

// removeStale stops and force-removes a container left over under the same name.
func (l *Launcher) removeStale(ctx context.Context, name string) {
	if err := l.engine.Stop(ctx, name); err != nil {
		l.logger.Debug("pre-cleanup stop failed", "container", name, "err", err)
	}
	if err := l.engine.Remove(ctx, name, true); err != nil {
		l.logger.Debug("pre-cleanup remove failed", "container", name, "err", err)
	}
}

// hookContext is done when ctx is or when one of the configured signals
// arrives. signal.NotifyContext relays every signal when given none, so an
// empty list must not reach it.
func (l *Launcher) hookContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if len(l.signals) == 0 {
		return context.WithCancel(ctx)
	}
	return signal.NotifyContext(ctx, l.signals...)
}

// fireHook stops the running container once. release restores default
// signal handling first, so a second interrupt ends the process while the
// stop is still in flight.
func (l *Launcher) fireHook(ctx context.Context, name string, release func()) {
	l.hookOnce.Do(func() {
		release()
		l.hookFired.Store(true)
		l.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
		l.printer.Print(ui.IconStop, "Shutdown hook triggered. Stopping WireMock container...")

		if err := l.engine.Stop(context.WithoutCancel(ctx), name); err != nil {
			stopErr := &StopError{Container: name, Cause: err}
			l.printer.Println(stopErr.Error())
			l.logger.Error("exit hook failed", "container", name, "err", stopErr)
			l.hookMu.Lock()
			l.hookErr = stopErr
			l.hookMu.Unlock()
		}
	})
}

func (l *Launcher) startFailure(result *container.RunResult, err error) error {
	switch {
	case err != nil:
		return err
	case result == nil:
		return fmt.Errorf("%s returned no result", l.engine.Name())
	case result.Error != nil:
		return result.Error
	case !result.ExitCode.IsSuccess() && !l.hookFired.Load():
		return fmt.Errorf("%s exited with code %s", l.engine.Name(), result.ExitCode)
	default:
		return nil
	}
}
