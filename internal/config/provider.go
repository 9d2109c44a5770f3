// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"wdee-cli/internal/ui"
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath is the path given on the command line.
		ConfigFilePath string
		// ProjectRoot overrides the working directory when set.
		ProjectRoot string
	}

	// Provider loads a configuration file and resolves it into a Context.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Context, error)
	}

	// ProviderOption configures the file provider.
	ProviderOption func(*fileProvider)

	fileProvider struct {
		printer *ui.Printer
		logger  *log.Logger
	}
)

// WithPrinter sets where user-facing progress lines go.
func WithPrinter(p *ui.Printer) ProviderOption {
	return func(fp *fileProvider) { fp.printer = p }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) ProviderOption {
	return func(fp *fileProvider) { fp.logger = l }
}

// NewProvider creates a configuration provider backed by the filesystem.
func NewProvider(opts ...ProviderOption) Provider {
	p := &fileProvider{
		printer: ui.NewPrinter(os.Stdout),
		logger:  ui.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load checks the file, prints the loading line, parses the document and
// resolves the Context.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Context, error) {
	if err := checkConfigFile(opts.ConfigFilePath); err != nil {
		return nil, err
	}

	p.printer.Printf(ui.IconPage, "Loading configuration from %s", opts.ConfigFilePath)

	cfg, err := parseConfig(ctx, opts.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	root := opts.ProjectRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &ParseError{Path: opts.ConfigFilePath, Cause: err}
		}
		root = wd
	}

	cc, err := NewContext(cfg, opts.ConfigFilePath, root)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("configuration resolved",
		"configDir", cc.ConfigDir,
		"sources", len(cc.SourceFiles),
		"dependencies", len(cc.Dependencies),
		"container", cc.JarRun.ContainerName,
		"port", cc.JarRun.HostPort)

	return cc, nil
}

// ReadConfigAndInitializeContext loads path with a default provider printing
// to printer, resolving paths against the current working directory.
func ReadConfigAndInitializeContext(ctx context.Context, path string, printer *ui.Printer) (*Context, error) {
	return NewProvider(WithPrinter(printer)).Load(ctx, LoadOptions{ConfigFilePath: path})
}
