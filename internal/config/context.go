// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
)

const (
	// TempBuildDirName is the scratch Gradle project directory under the project root.
	TempBuildDirName = ".extensions-builder"
	// OutputJarName is the file name of the final artifact.
	OutputJarName = "wiremock-extensions-bundled.jar"
	// TempJarPath is where the shadow task leaves the jar, relative to the temp project.
	TempJarPath = "build/libs/extensions-bundled.jar"

	// ServerImage is the WireMock image the run command starts.
	ServerImage = "wiremock/wiremock:3.13.1"
	// ServerContainerPort is the port WireMock listens on inside the container.
	ServerContainerPort = 8080

	mappingsDirName = "mappings"
	filesDirName    = "__files"
)

// WrapperFiles lists the Gradle wrapper files copied into every temp project,
// as slash-separated paths relative to the project directory.
var WrapperFiles = []string{
	"gradlew",
	"gradlew.bat",
	"gradle/wrapper/gradle-wrapper.properties",
}

type (
	// Context is the resolved, read-only state of one invocation.
	Context struct {
		ConfigPath  string
		ConfigDir   string
		ProjectRoot string

		// SourceFilesLocation is the absolute directory the source entries are
		// resolved against.
		SourceFilesLocation string
		SourceFiles         []string
		Dependencies        []string
		JarRun              JarRun

		MappingsDir   string
		FilesDir      string
		TempBuildDir  string
		OutputDir     string
		OutputJarName string
		TempJarPath   string
		WrapperFiles  []string

		Image         string
		ContainerPort int
	}

	// JarRun holds the resolved container settings.
	JarRun struct {
		ContainerName   string
		HostPort        int
		ServerCLOptions []string
	}
)

// NewContext resolves cfg against the directory holding configPath and the
// project root. Both directories are made absolute.
func NewContext(cfg *Config, configPath, projectRoot string) (*Context, error) {
	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		return nil, &ParseError{Path: configPath, Cause: err}
	}
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, &ParseError{Path: configPath, Cause: err}
	}
	configDir := filepath.Dir(absConfig)

	location := ResolveSourceLocation(configDir, cfg.SourceFilesLocation)
	info, err := os.Stat(location)
	if err != nil {
		return nil, &ParseError{Path: configPath, Cause: fmt.Errorf("source-files-location %q: %w", cfg.SourceFilesLocation, err)}
	}
	if !info.IsDir() {
		return nil, &ParseError{Path: configPath, Cause: fmt.Errorf("source-files-location %q is not a directory", cfg.SourceFilesLocation)}
	}

	return &Context{
		ConfigPath:          absConfig,
		ConfigDir:           configDir,
		ProjectRoot:         root,
		SourceFilesLocation: location,
		SourceFiles:         slices.Clone(cfg.SourceFiles),
		Dependencies:        slices.Clone(cfg.Dependencies),
		JarRun: JarRun{
			ContainerName:   cfg.JarRunConfig.ContainerName,
			HostPort:        cfg.JarRunConfig.HostPort,
			ServerCLOptions: slices.Clone(cfg.JarRunConfig.ServerCLOptions),
		},
		MappingsDir:   filepath.Join(configDir, mappingsDirName),
		FilesDir:      filepath.Join(configDir, filesDirName),
		TempBuildDir:  filepath.Join(root, TempBuildDirName),
		OutputDir:     filepath.Join(root, "build", "extensions"),
		OutputJarName: OutputJarName,
		TempJarPath:   TempJarPath,
		WrapperFiles:  slices.Clone(WrapperFiles),
		Image:         ServerImage,
		ContainerPort: ServerContainerPort,
	}, nil
}

// ResolveSourceLocation maps the configured source-files-location onto an
// absolute directory. "", ".", "/" and "./" all mean the config directory.
func ResolveSourceLocation(configDir, location string) string {
	switch location {
	case "", ".", "/", "./":
		return configDir
	default:
		return filepath.Join(configDir, filepath.FromSlash(location))
	}
}

// OutputJarPath is the absolute path of the final artifact.
func (c *Context) OutputJarPath() string {
	return filepath.Join(c.OutputDir, c.OutputJarName)
}
