// SPDX-License-Identifier: MPL-2.0

// Package templates serves the files bundled into every temporary Gradle
// project: the version catalog and the Gradle wrapper scripts.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// VersionCatalogFile is the catalog's path inside the provider.
const VersionCatalogFile = "gradle/libs.versions.toml"

//go:embed assets
var assets embed.FS

// ErrTemplateNotFound is returned when a requested asset does not exist.
var ErrTemplateNotFound = errors.New("template not found")

type (
	// Provider serves bundled files by slash-separated relative name.
	Provider interface {
		ReadFile(name string) ([]byte, error)
	}

	// NotFoundError is returned when a provider has no file with the given name.
	NotFoundError struct {
		Name string
	}

	fsProvider struct {
		fsys fs.FS
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrTemplateNotFound }

// Embedded returns the provider backed by the assets compiled into the binary.
func Embedded() Provider {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return &fsProvider{fsys: sub}
}

// FromFS returns a provider serving files from fsys.
func FromFS(fsys fs.FS) Provider {
	return &fsProvider{fsys: fsys}
}

func (p *fsProvider) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(p.fsys, path.Clean(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("read template %q: %w", name, err)
	}
	return data, nil
}

// CopyFile writes the asset name to dest with the given mode, creating the
// parent directories. An existing file at dest is replaced.
func CopyFile(p Provider, name, dest string, mode fs.FileMode) error {
	data, err := p.ReadFile(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(dest, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", dest, err)
	}
	return nil
}
