// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wdee-cli/internal/config"
	"wdee-cli/internal/issue"
	"wdee-cli/internal/ui"
	"wdee-cli/pkg/types"
)

const usageText = `
WireMock Extension Builder

Usage:
  <command> <config-file>

Commands:
  build <config-file>  - Build extensions JAR.
  run <config-file>    - Build extensions JAR and run WireMock Docker container.
  help                 - Show this help message.`

func newBuildCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build <config-file>",
		Short: "Build extensions JAR",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return a.invalidArguments()
			}
			cc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !a.build(cmd.Context(), cc) {
				return &ExitError{Code: types.ExitFailure}
			}
			return nil
		},
	}
}

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <config-file>",
		Short: "Build extensions JAR and run WireMock container",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return a.invalidArguments()
			}
			cc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !a.build(cmd.Context(), cc) {
				return &ExitError{Code: types.ExitFailure}
			}
			return a.serve(cmd.Context(), cc)
		},
	}
}

func newHelpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show this help message",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return a.invalidArguments()
			}
			a.printUsage()
			return nil
		},
	}
}

func (a *app) printUsage() {
	a.printer.Println(usageText)
}

func (a *app) invalidArguments() error {
	a.printer.Println("Error: Invalid arguments. Please provide a command and a config file.")
	a.printUsage()
	return &ExitError{Code: types.ExitFailure}
}

// load reads the configuration file. Failures are printed here.
func (a *app) load(ctx context.Context, path string) (*config.Context, error) {
	cc, err := a.loadConfig(ctx, path, a.printer, a.logger)
	if err == nil {
		return cc, nil
	}

	var (
		notFound *config.NotFoundError
		id       issue.Id
	)
	switch {
	case errors.As(err, &notFound):
		a.printer.Print(ui.IconWarning, err.Error())
		id = issue.ConfigNotFoundId
	case errors.Is(err, config.ErrConfigNameInvalid):
		a.printer.Print(ui.IconError, err.Error())
		id = issue.ConfigNameInvalidId
	case errors.Is(err, config.ErrConfigParse):
		a.printer.Print(ui.IconError, err.Error())
		id = issue.ConfigParseErrorId
	default:
		a.printer.Printf(ui.IconError, "Error loading configuration: %v", err)
	}

	a.renderVerbose(issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(id).
		Wrap(err).
		BuildError())
	return nil, &ExitError{Code: types.ExitFailure}
}

func (a *app) build(ctx context.Context, cc *config.Context) bool {
	b := a.newBuilder(cc, a.printer, a.logger)
	if b.Build(ctx) {
		return true
	}
	a.renderVerbose(b.Err())
	return false
}

// serve starts the container and blocks until it exits.
func (a *app) serve(ctx context.Context, cc *config.Context) error {
	engine, err := a.newEngine(a.engineType, a.logger)
	if err != nil {
		a.printer.Printf(ui.IconError, "Failed to start WireMock container: %v", err)
		a.renderVerbose(issue.NewErrorContext().
			WithOperation("start WireMock container").
			WithResource(cc.JarRun.ContainerName).
			WithIssue(issue.ContainerEngineNotFoundId).
			WithSuggestion("Install Docker or Podman, or select the other engine with --engine").
			Wrap(err).
			BuildError())
		return &ExitError{Code: types.ExitFailure}
	}
	// Version shells out to the engine, so only ask when debug output is shown.
	if a.verbose {
		if version, err := engine.Version(ctx); err != nil {
			a.logger.Debug("container engine version unavailable", "engine", engine.Name(), "err", err)
		} else {
			a.logger.Debug("using container engine", "engine", engine.Name(), "version", version)
		}
	}

	l := a.newLauncher(cc, engine, a.printer, a.logger)
	runErr := l.Run(ctx)

	if hookErr := l.HookErr(); hookErr != nil {
		a.renderVerbose(issue.NewErrorContext().
			WithOperation("stop WireMock container").
			WithResource(cc.JarRun.ContainerName).
			WithIssue(issue.ContainerStopFailedId).
			Wrap(hookErr).
			BuildError())
	}

	if runErr != nil {
		a.renderVerbose(issue.NewErrorContext().
			WithOperation("start WireMock container").
			WithResource(cc.JarRun.ContainerName).
			WithIssue(issue.ContainerStartFailedId).
			WithSuggestion(fmt.Sprintf("Check that port %d is free and that no other container is named %q",
				cc.JarRun.HostPort, cc.JarRun.ContainerName)).
			Wrap(runErr).
			BuildError())
		return &ExitError{Code: types.ExitFailure}
	}
	return nil
}

// renderVerbose prints the error chain, suggestions and issue help of err
// to stderr. It does nothing unless --verbose is set.
func (a *app) renderVerbose(err error) {
	if !a.verbose || err == nil {
		return
	}

	fmt.Fprintln(a.stderr, renderLabelStyle.Render("Details:"))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fmt.Fprintln(a.stderr, renderValueStyle.Render(err.Error()))
		return
	}
	fmt.Fprintln(a.stderr, renderValueStyle.Render(ae.Format(true)))

	if entry := ae.Issue(); entry != nil {
		rendered, renderErr := entry.Render("dark")
		if renderErr != nil {
			a.logger.Warn("failed to render issue catalog entry", "issue", ae.IssueId, "err", renderErr)
			return
		}
		fmt.Fprint(a.stderr, rendered)
	}
}
