// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ConfigFileName is the only accepted configuration file name.
	ConfigFileName = "wdee-config.yaml"

	// DefaultContainerName is used when jar-run-config.docker-container-name is absent.
	DefaultContainerName = "wiremock-docker-easy-extensions"
	// DefaultHostPort is used when jar-run-config.docker-port is absent.
	DefaultHostPort = 8080

	keySourceFilesLocation = "source-files-location"
	keySourceFiles         = "source-files"
	keyDependencies        = "dependencies"
	keyContainerName       = "jar-run-config.docker-container-name"
	keyHostPort            = "jar-run-config.docker-port"
	keyServerCLOptions     = "jar-run-config.wiremock-cl-options"
)

var (
	// ErrConfigNotFound is the sentinel error wrapped by NotFoundError.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrConfigNameInvalid is the sentinel error wrapped by NameInvalidError.
	ErrConfigNameInvalid = errors.New("invalid configuration file name")
	// ErrConfigParse is the sentinel error wrapped by ParseError.
	ErrConfigParse = errors.New("configuration parse error")
)

type (
	// Config mirrors the wdee-config.yaml document.
	Config struct {
		SourceFilesLocation string       `mapstructure:"source-files-location"`
		SourceFiles         []string     `mapstructure:"source-files" validate:"dive,required"`
		Dependencies        []string     `mapstructure:"dependencies" validate:"dive,required"`
		JarRunConfig        JarRunConfig `mapstructure:"jar-run-config"`
	}

	// JarRunConfig holds the container settings used by the run command.
	JarRunConfig struct {
		ContainerName   string   `mapstructure:"docker-container-name" validate:"required"`
		HostPort        int      `mapstructure:"docker-port" validate:"min=1,max=65535"`
		ServerCLOptions []string `mapstructure:"wiremock-cl-options"`
	}

	// NotFoundError is returned when the configuration file does not exist.
	NotFoundError struct {
		Path string
	}

	// NameInvalidError is returned when the file is not named wdee-config.yaml.
	NameInvalidError struct {
		Actual string
	}

	// ParseError is returned when the document cannot be read, does not match
	// the schema or violates a value constraint. It wraps both ErrConfigParse
	// and the underlying cause.
	ParseError struct {
		Path  string
		Cause error
	}
)

// DefaultConfig returns a Config holding every default value. The required
// keys are left empty.
func DefaultConfig() *Config {
	return &Config{
		Dependencies: []string{},
		JarRunConfig: JarRunConfig{
			ContainerName:   DefaultContainerName,
			HostPort:        DefaultHostPort,
			ServerCLOptions: []string{},
		},
	}
}

// applyDefaults fills values that decoding left at their zero value.
func (c *Config) applyDefaults() {
	if c.Dependencies == nil {
		c.Dependencies = []string{}
	}
	if c.JarRunConfig.ContainerName == "" {
		c.JarRunConfig.ContainerName = DefaultContainerName
	}
	if c.JarRunConfig.HostPort == 0 {
		c.JarRunConfig.HostPort = DefaultHostPort
	}
	if c.JarRunConfig.ServerCLOptions == nil {
		c.JarRunConfig.ServerCLOptions = []string{}
	}
}

func (e *NotFoundError) Error() string {
	return "Configuration file not found: " + e.Path
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

func (e *NameInvalidError) Error() string {
	return fmt.Sprintf("Invalid configuration file name. Expected '%s', got '%s'", ConfigFileName, e.Actual)
}

func (e *NameInvalidError) Unwrap() error { return ErrConfigNameInvalid }

func (e *ParseError) Error() string {
	return fmt.Sprintf("Error loading configuration: %v", e.Cause)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrConfigParse, e.Cause}
}
