// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"wdee-cli/internal/builder"
	"wdee-cli/internal/config"
	"wdee-cli/internal/container"
	"wdee-cli/internal/launcher"
	"wdee-cli/internal/ui"
	"wdee-cli/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	extensionBuilder interface {
		Build(ctx context.Context) bool
		Err() error
	}

	containerLauncher interface {
		Run(ctx context.Context) error
		HookErr() error
	}

	// deps holds the collaborators behind the commands, replaced in tests.
	deps struct {
		stdout      io.Writer
		stderr      io.Writer
		loadConfig  func(ctx context.Context, path string, p *ui.Printer, l *log.Logger) (*config.Context, error)
		newBuilder  func(cc *config.Context, p *ui.Printer, l *log.Logger) extensionBuilder
		newEngine   func(t container.EngineType, l *log.Logger) (container.Engine, error)
		newLauncher func(cc *config.Context, e container.Engine, p *ui.Printer, l *log.Logger) containerLauncher
	}

	// app is the state of one CLI invocation.
	app struct {
		deps
		verbose    bool
		engineFlag string
		engineType container.EngineType
		printer    *ui.Printer
		logger     *log.Logger
	}
)

func defaultDeps() deps {
	return deps{
		stdout: os.Stdout,
		stderr: os.Stderr,
		loadConfig: func(ctx context.Context, path string, p *ui.Printer, l *log.Logger) (*config.Context, error) {
			provider := config.NewProvider(config.WithPrinter(p), config.WithLogger(l))
			return provider.Load(ctx, config.LoadOptions{ConfigFilePath: path})
		},
		newBuilder: func(cc *config.Context, p *ui.Printer, l *log.Logger) extensionBuilder {
			return builder.New(cc, builder.WithPrinter(p), builder.WithLogger(l))
		},
		newEngine: func(t container.EngineType, l *log.Logger) (container.Engine, error) {
			return container.NewEngine(t, container.WithLogger(l))
		},
		newLauncher: func(cc *config.Context, e container.Engine, p *ui.Printer, l *log.Logger) containerLauncher {
			return launcher.New(cc, e, launcher.WithPrinter(p), launcher.WithLogger(l))
		},
	}
}

// newRootCommand wires the command tree around d.
func newRootCommand(d deps) *cobra.Command {
	a := &app{
		deps:    d,
		printer: ui.NewPrinter(d.stdout),
		logger:  ui.DiscardLogger(),
	}

	root := &cobra.Command{
		Use:   "wdee <command> <config-file>",
		Short: "Build WireMock extensions and serve them from a container",
		Long: TitleStyle.Render("wdee") + SubtitleStyle.Render(" - WireMock extension builder") + `

wdee compiles Java and Kotlin WireMock extensions listed in a
wdee-config.yaml file into a single JAR, and can start a WireMock
container with the JAR, the mappings and the __files directory mounted.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(args)
		},
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.SetOut(d.stdout)
	root.SetErr(d.stderr)

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging and detailed error output")
	root.PersistentFlags().StringVar(&a.engineFlag, "engine", string(container.EngineTypeDocker), "container engine used by run (docker or podman)")

	root.AddCommand(newBuildCommand(a), newRunCommand(a))
	root.SetHelpCommand(newHelpCommand(a))

	return root
}

func (a *app) init() error {
	t, err := container.ParseEngineType(a.engineFlag)
	if err != nil {
		return err
	}
	a.engineType = t
	a.logger = ui.NewLogger(a.stderr, a.verbose)
	return nil
}

// dispatch handles everything that did not match a command.
func (a *app) dispatch(args []string) error {
	if len(args) != 2 {
		return a.invalidArguments()
	}
	a.printer.Println("Unknown command: " + args[0])
	a.printUsage()
	return &ExitError{Code: types.ExitFailure}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// errorHandler prints errors that were not reported by the commands themselves.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute runs the CLI and exits the process with the resulting status.
// This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(defaultDeps()),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
