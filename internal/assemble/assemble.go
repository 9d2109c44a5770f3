// SPDX-License-Identifier: MPL-2.0

// Package assemble copies extension sources into the temporary Gradle
// project and writes the service-loader descriptor WireMock uses to discover
// them.
package assemble

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"wdee-cli/internal/config"
	"wdee-cli/internal/ui"
)

const (
	// ServiceDescriptorPath is the descriptor location inside the project.
	ServiceDescriptorPath = "src/main/resources/META-INF/services/com.github.tomakehurst.wiremock.extension.Extension"

	kotlinSourceSet = "src/main/kotlin"
	javaSourceSet   = "src/main/java"
	kotlinExt       = ".kt"
)

// packageDecl matches a Kotlin or Java package declaration. Kotlin allows the
// semicolon to be omitted.
var packageDecl = regexp.MustCompile(`^\s*package\s+([A-Za-z_][\w]*(?:\s*\.\s*[A-Za-z_][\w]*)*)\s*;?`)

type (
	// Assembler copies the configured sources of a Context.
	Assembler struct {
		cc      *config.Context
		printer *ui.Printer
		logger  *log.Logger
	}

	// Source describes one copied extension source.
	Source struct {
		// ClassName is the fully-qualified class name listed in the descriptor.
		ClassName   string
		Source      string
		Destination string
	}

	// Result is the outcome of Assemble.
	Result struct {
		Copied  []Source
		Missing []string
		// DescriptorPath is empty when no descriptor was written.
		DescriptorPath string
	}

	// entry is a parsed source-files item.
	entry struct {
		// file is the path relative to the source location.
		file string
		// hint is the package encoded in the entry name, if any.
		hint string
		// class is the simple class name.
		class string
		ext   string
	}
)

// New creates an Assembler. A nil logger discards diagnostics.
func New(cc *config.Context, printer *ui.Printer, logger *log.Logger) *Assembler {
	if logger == nil {
		logger = ui.DiscardLogger()
	}
	return &Assembler{cc: cc, printer: printer, logger: logger}
}

// Assemble copies every present source into buildDir in configured order and
// writes the service descriptor when at least one source was copied. Missing
// sources are reported and skipped.
func (a *Assembler) Assemble(buildDir string) (*Result, error) {
	res := &Result{}

	for _, raw := range a.cc.SourceFiles {
		e := parseEntry(raw)
		src := filepath.Join(a.cc.SourceFilesLocation, filepath.FromSlash(e.file))

		info, err := os.Stat(src)
		if err != nil || info.IsDir() {
			a.printer.Printf(ui.IconWarning, "Warning: Source file not found and will be skipped: %s", src)
			res.Missing = append(res.Missing, src)
			continue
		}

		pkg, err := declaredPackage(src)
		if err != nil {
			return res, err
		}
		if pkg == "" {
			pkg = e.hint
		}

		dest := filepath.Join(buildDir, filepath.FromSlash(sourceSet(e.ext)))
		if pkg != "" {
			dest = filepath.Join(dest, filepath.FromSlash(strings.ReplaceAll(pkg, ".", "/")))
		}
		dest = filepath.Join(dest, filepath.Base(filepath.FromSlash(e.file)))

		if err := copyFile(src, dest); err != nil {
			return res, err
		}

		fqn := e.class
		if pkg != "" {
			fqn = pkg + "." + e.class
		}
		a.logger.Debug("copied source", "class", fqn, "from", src, "to", dest)
		res.Copied = append(res.Copied, Source{ClassName: fqn, Source: src, Destination: dest})
	}

	if len(res.Copied) == 0 {
		a.printer.Print(ui.IconWarning, "No extension classes provided, skipping service discovery file generation.")
		return res, nil
	}

	descriptor := filepath.Join(buildDir, filepath.FromSlash(ServiceDescriptorPath))
	if err := os.MkdirAll(filepath.Dir(descriptor), 0o755); err != nil {
		return res, fmt.Errorf("create services directory: %w", err)
	}
	names := make([]string, 0, len(res.Copied))
	for _, s := range res.Copied {
		names = append(names, s.ClassName)
	}
	if err := os.WriteFile(descriptor, []byte(strings.Join(names, "\n")), 0o644); err != nil {
		return res, fmt.Errorf("write service descriptor: %w", err)
	}
	res.DescriptorPath = descriptor
	a.printer.Print(ui.IconGreenCheck, "Created Service Loader for wiremock to discover extensions.")

	return res, nil
}

// parseEntry splits a source-files item. "com.example.MyExtension.kt" names
// the file MyExtension.kt with package hint com.example; "sub/File1.kt" names
// the file sub/File1.kt with no hint.
func parseEntry(raw string) entry {
	raw = strings.TrimSpace(filepath.ToSlash(raw))
	ext := path.Ext(raw)
	stem := strings.TrimSuffix(raw, ext)

	dir, base := path.Split(stem)
	hint := ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		hint = base[:i]
		base = base[i+1:]
	}

	return entry{
		file:  dir + base + ext,
		hint:  hint,
		class: base,
		ext:   ext,
	}
}

func sourceSet(ext string) string {
	if strings.EqualFold(ext, kotlinExt) {
		return kotlinSourceSet
	}
	return javaSourceSet
}

// declaredPackage returns the package declared by the source file, or "" if
// none is declared before the first non-comment code line.
func declaredPackage(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	inBlock := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if inBlock {
			end := strings.Index(line, "*/")
			if end < 0 {
				continue
			}
			inBlock = false
			line = strings.TrimSpace(line[end+2:])
		}
		if strings.HasPrefix(line, "/*") {
			if !strings.Contains(line[2:], "*/") {
				inBlock = true
				continue
			}
			line = strings.TrimSpace(line[strings.Index(line[2:], "*/")+4:])
		}
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "@file:") {
			continue
		}
		if m := packageDecl.FindStringSubmatch(line); m != nil {
			return strings.Join(strings.Fields(m[1]), ""), nil
		}
		return "", nil
	}
	return "", nil
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
