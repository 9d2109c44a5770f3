// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"wdee-cli/internal/cueutil"
)

// maxConfigFileSize guards against feeding huge files to the YAML parser.
const maxConfigFileSize = 1 << 20

//go:embed config_schema.cue
var configSchema string

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkConfigFile applies the existence and file name rules, in that order.
// A stat failure other than a missing file is reported as a *ParseError.
func checkConfigFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &NotFoundError{Path: path}
	case err != nil:
		return &ParseError{Path: path, Cause: err}
	case info.IsDir():
		return &NotFoundError{Path: path}
	}

	if name := filepath.Base(path); name != ConfigFileName {
		return &NameInvalidError{Actual: name}
	}

	return nil
}

// parseConfig reads, schema-checks and decodes the configuration file.
// Every failure is returned as a *ParseError.
func parseConfig(ctx context.Context, path string) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	configMap, err := validateAgainstSchema(path, data)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	v := viper.New()
	setDefaults(v)
	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("failed to merge config: %w", err)}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	cfg.applyDefaults()

	if err := validate.Struct(&cfg); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault(keyDependencies, defaults.Dependencies)
	v.SetDefault(keyContainerName, defaults.JarRunConfig.ContainerName)
	v.SetDefault(keyHostPort, defaults.JarRunConfig.HostPort)
	v.SetDefault(keyServerCLOptions, defaults.JarRunConfig.ServerCLOptions)
}

// validateAgainstSchema checks the YAML document against #Config and
// decodes the result into a map with null values removed, so that Viper
// falls back to its defaults for them.
func validateAgainstSchema(path string, data []byte) (map[string]any, error) {
	unified, err := cueutil.ValidateYAML(configSchema, "#Config", data,
		cueutil.WithFilename(filepath.Base(path)),
		cueutil.WithMaxFileSize(maxConfigFileSize),
	)
	if err != nil {
		return nil, err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, err
	}

	return pruneNulls(configMap), nil
}

// pruneNulls drops nil values from m, recursing into nested maps.
func pruneNulls(m map[string]any) map[string]any {
	for k, val := range m {
		switch typed := val.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			m[k] = pruneNulls(typed)
		}
	}
	return m
}
