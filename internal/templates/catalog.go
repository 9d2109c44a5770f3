// SPDX-License-Identifier: MPL-2.0

package templates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Names the generated build script relies on.
const (
	CatalogVersionKotlin   = "kotlin"
	CatalogVersionShadow   = "shadow"
	CatalogVersionWireMock = "wiremock"
	CatalogLibraryWireMock = "wiremock"
	CatalogPluginKotlinJVM = "kotlin-jvm"
	CatalogPluginShadowJar = "shadow-jar"
)

// ErrInvalidCatalog is the sentinel error wrapped by InvalidCatalogError.
var ErrInvalidCatalog = errors.New("invalid version catalog")

type (
	// VersionCatalog is the subset of a Gradle version catalog wdee reads.
	VersionCatalog struct {
		Versions  map[string]string         `toml:"versions"`
		Libraries map[string]CatalogLibrary `toml:"libraries"`
		Plugins   map[string]CatalogPlugin  `toml:"plugins"`
	}

	// CatalogLibrary is a [libraries] entry. Version is either a literal
	// string or a table holding a "ref" into [versions].
	CatalogLibrary struct {
		Module  string `toml:"module"`
		Version any    `toml:"version"`
	}

	// CatalogPlugin is a [plugins] entry.
	CatalogPlugin struct {
		ID      string `toml:"id"`
		Version any    `toml:"version"`
	}

	// InvalidCatalogError lists every missing or malformed entry.
	InvalidCatalogError struct {
		Problems []string
	}
)

func (e *InvalidCatalogError) Error() string {
	return fmt.Sprintf("invalid version catalog: %s", strings.Join(e.Problems, "; "))
}

func (e *InvalidCatalogError) Unwrap() error { return ErrInvalidCatalog }

// LoadVersionCatalog decodes and validates the provider's version catalog.
func LoadVersionCatalog(p Provider) (*VersionCatalog, error) {
	data, err := p.ReadFile(VersionCatalogFile)
	if err != nil {
		return nil, err
	}

	var catalog VersionCatalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode %s: %w", VersionCatalogFile, err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate checks that every version, library and plugin the build script
// references is declared and resolvable.
func (c *VersionCatalog) Validate() error {
	var problems []string

	for _, name := range []string{CatalogVersionKotlin, CatalogVersionShadow, CatalogVersionWireMock} {
		if strings.TrimSpace(c.Versions[name]) == "" {
			problems = append(problems, fmt.Sprintf("versions.%s is missing", name))
		}
	}

	if lib, ok := c.Libraries[CatalogLibraryWireMock]; !ok || lib.Module == "" {
		problems = append(problems, fmt.Sprintf("libraries.%s is missing a module", CatalogLibraryWireMock))
	} else if c.LibraryVersion(CatalogLibraryWireMock) == "" {
		problems = append(problems, fmt.Sprintf("libraries.%s has no resolvable version", CatalogLibraryWireMock))
	}

	for _, name := range []string{CatalogPluginKotlinJVM, CatalogPluginShadowJar} {
		if plugin, ok := c.Plugins[name]; !ok || plugin.ID == "" {
			problems = append(problems, fmt.Sprintf("plugins.%s is missing an id", name))
		} else if c.PluginVersion(name) == "" {
			problems = append(problems, fmt.Sprintf("plugins.%s has no resolvable version", name))
		}
	}

	if len(problems) > 0 {
		return &InvalidCatalogError{Problems: problems}
	}
	return nil
}

// LibraryVersion returns the resolved version of the named library.
func (c *VersionCatalog) LibraryVersion(name string) string {
	return c.resolve(c.Libraries[name].Version)
}

// PluginVersion returns the resolved version of the named plugin.
func (c *VersionCatalog) PluginVersion(name string) string {
	return c.resolve(c.Plugins[name].Version)
}

func (c *VersionCatalog) resolve(version any) string {
	switch v := version.(type) {
	case string:
		return v
	case map[string]any:
		if ref, ok := v["ref"].(string); ok {
			return c.Versions[ref]
		}
	}
	return ""
}
