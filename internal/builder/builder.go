// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"wdee-cli/internal/assemble"
	"wdee-cli/internal/config"
	"wdee-cli/internal/issue"
	"wdee-cli/internal/process"
	"wdee-cli/internal/scaffold"
	"wdee-cli/internal/templates"
	"wdee-cli/internal/ui"
	"wdee-cli/pkg/platform"
	"wdee-cli/pkg/types"
)

const (
	unixWrapper    = "gradlew"
	windowsWrapper = "gradlew.bat"

	// WrapperBootstrapExitCode is returned by both wrapper scripts when
	// Gradle cannot be downloaded or unpacked.
	WrapperBootstrapExitCode types.ExitCode = 3
)

// GradleArgs are passed to the wrapper to produce the bundled JAR.
var GradleArgs = []string{"shadowJar", "--no-daemon", "-q"}

type (
	// Option configures a Builder.
	Option func(*Builder)

	// Builder runs the extension build pipeline for one project.
	Builder struct {
		cc          *config.Context
		templates   templates.Provider
		printer     *ui.Printer
		logger      *log.Logger
		execCommand process.ExecCommandFunc
		stdout      io.Writer
		stderr      io.Writer
		goos        string

		lastErr error
		missing []string
	}
)

// WithPrinter sets the printer for user-facing diagnostics.
func WithPrinter(p *ui.Printer) Option {
	return func(b *Builder) {
		if p != nil {
			b.printer = p
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithTemplates replaces the embedded template assets.
func WithTemplates(p templates.Provider) Option {
	return func(b *Builder) {
		if p != nil {
			b.templates = p
		}
	}
}

// WithExecCommand sets the function used to create the Gradle command.
func WithExecCommand(fn process.ExecCommandFunc) Option {
	return func(b *Builder) {
		b.execCommand = fn
	}
}

// WithOutput redirects the Gradle process output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(b *Builder) {
		b.stdout = stdout
		b.stderr = stderr
	}
}

// WithGOOS overrides the host operating system used to pick the wrapper.
func WithGOOS(goos string) Option {
	return func(b *Builder) {
		b.goos = goos
	}
}

// New creates a builder for the project described by cc.
func New(cc *config.Context, opts ...Option) *Builder {
	b := &Builder{
		cc:        cc,
		templates: templates.Embedded(),
		printer:   ui.NewPrinter(os.Stdout),
		logger:    ui.DiscardLogger(),
		goos:      platform.Current(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Err returns the error of the last failed Build, annotated with an issue
// and suggestions when one applies.
func (b *Builder) Err() error {
	return b.lastErr
}

// Build runs the whole pipeline and reports whether the JAR was produced.
// Every failure is printed before returning false.
func (b *Builder) Build(ctx context.Context) bool {
	logger := b.logger.With("build", uuid.NewString())
	b.lastErr = nil
	b.missing = nil

	b.printer.Print(ui.IconCog, "Compiling extensions and building JAR...")

	jar, err := b.build(ctx, logger)
	if err != nil {
		b.printer.Printf(ui.IconError, "Error building extensions: %v", err)
		logger.Debug("build failed", "err", err)
		b.lastErr = b.annotate(err)
		return false
	}

	b.printer.Printf(ui.IconGreenCheck, "Success! Extension JAR created at: %s", jar)
	logger.Debug("build finished", "jar", jar)
	return true
}

func (b *Builder) build(ctx context.Context, logger *log.Logger) (jar string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := b.cc.TempBuildDir
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clean %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("failed to remove temporary build directory", "dir", dir, "err", rmErr)
		}
	}()
	logger.Debug("created temporary build project", "dir", dir)

	if err := scaffold.NewGenerator(b.templates).Generate(dir, b.cc); err != nil {
		return "", err
	}

	res, err := assemble.New(b.cc, b.printer, logger).Assemble(dir)
	if err != nil {
		return "", err
	}
	b.missing = res.Missing
	logger.Debug("assembled sources", "copied", len(res.Copied), "missing", len(res.Missing))

	if err := b.copyWrapper(dir); err != nil {
		return "", err
	}

	if err := b.runGradle(ctx, dir, logger); err != nil {
		return "", err
	}

	built := filepath.Join(dir, filepath.FromSlash(b.cc.TempJarPath))
	if _, err := os.Stat(built); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrArtifactMissing, built)
		}
		return "", err
	}

	jar = b.cc.OutputJarPath()
	if err := moveFile(built, jar); err != nil {
		return "", err
	}
	return jar, nil
}

// copyWrapper writes the wrapper files into dir. A missing asset is a
// warning; Gradle reports the consequences.
func (b *Builder) copyWrapper(dir string) error {
	for _, name := range b.cc.WrapperFiles {
		dest := filepath.Join(dir, filepath.FromSlash(name))
		mode := os.FileMode(0o644)
		if name == unixWrapper && platform.SupportsExecBit(b.goos) {
			mode = 0o755
		}

		err := templates.CopyFile(b.templates, name, dest, mode)
		switch {
		case err == nil:
		case errors.Is(err, templates.ErrTemplateNotFound):
			b.printer.Printf(ui.IconWarning, "Warning: Gradle wrapper file not found: %s", name)
		default:
			return err
		}
	}
	return nil
}

func (b *Builder) wrapperCommand(dir string) string {
	if platform.IsWindows(b.goos) {
		return filepath.Join(dir, windowsWrapper)
	}
	return "./" + unixWrapper
}

func (b *Builder) runGradle(ctx context.Context, dir string, logger *log.Logger) error {
	opts := []process.Option{process.WithLogger(logger), process.WithGOOS(b.goos)}
	if b.execCommand != nil {
		opts = append(opts, process.WithExecCommand(b.execCommand))
	}
	if b.stdout != nil || b.stderr != nil {
		opts = append(opts, process.WithStdio(os.Stdin, b.stdout, b.stderr))
	}

	code, err := process.NewRunner(opts...).Run(ctx, process.Spec{
		Name: b.wrapperCommand(dir),
		Args: GradleArgs,
		Dir:  dir,
	})
	if err != nil {
		return err
	}
	if !code.IsSuccess() {
		return &ProcessError{Code: code}
	}
	return nil
}

// annotate attaches the matching issue and suggestions to a build failure.
func (b *Builder) annotate(err error) error {
	ec := issue.NewErrorContext().
		WithOperation("build extensions JAR").
		WithResource(b.cc.ConfigPath).
		Wrap(err)

	var (
		procErr  *process.StartError
		buildErr *ProcessError
	)
	switch {
	case errors.As(err, &buildErr) && buildErr.Code == WrapperBootstrapExitCode:
		ec.WithIssue(issue.GradleWrapperFailedId)
		if b.goos == "windows" {
			ec.WithSuggestion("Make sure PowerShell is installed and can reach services.gradle.org")
		} else {
			ec.WithSuggestions("Install curl or wget so the wrapper can download Gradle",
				"Install unzip so the wrapper can unpack Gradle")
		}
	case errors.Is(err, ErrBuildFailed) && len(b.missing) > 0:
		ec.WithIssue(issue.SourceFilesMissingId)
		for _, m := range b.missing {
			ec.WithSuggestion("Skipped missing source file: " + m)
		}
	case errors.Is(err, ErrBuildFailed):
		ec.WithIssue(issue.BuildFailedId).
			WithSuggestions("Check the compiler output above for errors in the extension sources",
				"Make sure every dependency coordinate in the configuration resolves from Maven Central")
	case errors.Is(err, ErrArtifactMissing):
		ec.WithIssue(issue.ArtifactMissingId)
	case errors.As(err, &procErr):
		ec.WithIssue(issue.BuildFailedId).
			WithSuggestion("Make sure a Java runtime is installed and the Gradle wrapper can be executed")
	default:
		return err
	}
	return ec.BuildError()
}

// moveFile renames src to dest, falling back to copy and remove when the
// rename crosses devices. An existing dest is replaced.
func moveFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
