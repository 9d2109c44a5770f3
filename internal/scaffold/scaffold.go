// SPDX-License-Identifier: MPL-2.0

// Package scaffold writes the descriptors of the temporary Gradle project:
// the version catalog, settings.gradle.kts and build.gradle.kts.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"wdee-cli/internal/config"
	"wdee-cli/internal/templates"
)

const (
	// SettingsFileName is the Gradle settings script.
	SettingsFileName = "settings.gradle.kts"
	// BuildFileName is the Gradle build script.
	BuildFileName = "build.gradle.kts"
	// ProjectName is the fixed rootProject.name of the temporary project.
	ProjectName = "extensions-builder-temp"
	// ArchiveBaseName is the shadow jar base name, matching config.TempJarPath.
	ArchiveBaseName = "extensions-bundled"
)

var buildTemplate = template.Must(template.New(BuildFileName).
	Funcs(template.FuncMap{"kotlinString": kotlinString}).
	Parse(`import org.jetbrains.kotlin.gradle.dsl.JvmTarget

plugins {
    java
    alias(libs.plugins.kotlin.jvm)
    alias(libs.plugins.shadow.jar)
}

sourceSets {
    main {
        java {
            srcDirs("src/main/java")
        }
        kotlin {
            srcDirs("src/main/kotlin", "src/main/java")
        }
        resources {
            srcDirs("src/main/resources")
        }
    }
}

java.sourceCompatibility = JavaVersion.VERSION_11
java.targetCompatibility = JavaVersion.VERSION_11
kotlin.compilerOptions.jvmTarget = JvmTarget.JVM_11
repositories { mavenCentral() }

dependencies {
    implementation(libs.wiremock)
{{- range .Dependencies}}
    implementation({{kotlinString .}})
{{- end}}
}

tasks.jar {
    enabled = false
}

tasks.shadowJar {
    archiveBaseName = {{kotlinString .ArchiveBaseName}}
    archiveClassifier = ""
    archiveVersion = ""
    mergeServiceFiles()
}
`))

type (
	// Generator writes the project descriptors. It never touches the network
	// and never starts a process.
	Generator struct {
		templates templates.Provider
	}

	buildData struct {
		Dependencies    []string
		ArchiveBaseName string
	}
)

// NewGenerator creates a Generator reading bundled files from p.
func NewGenerator(p templates.Provider) *Generator {
	return &Generator{templates: p}
}

// Generate writes the catalog, settings and build scripts into dir, which
// must already exist.
func (g *Generator) Generate(dir string, cc *config.Context) error {
	if _, err := templates.LoadVersionCatalog(g.templates); err != nil {
		return fmt.Errorf("load version catalog: %w", err)
	}
	catalogDest := filepath.Join(dir, filepath.FromSlash(templates.VersionCatalogFile))
	if err := templates.CopyFile(g.templates, templates.VersionCatalogFile, catalogDest, 0o644); err != nil {
		return err
	}

	settings := fmt.Sprintf("rootProject.name = %s", kotlinString(ProjectName))
	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(settings), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", SettingsFileName, err)
	}

	script, err := RenderBuildScript(cc.Dependencies)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, BuildFileName), script, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", BuildFileName, err)
	}

	return nil
}

// RenderBuildScript renders build.gradle.kts with one implementation line per
// dependency coordinate, in order.
func RenderBuildScript(dependencies []string) ([]byte, error) {
	var buf bytes.Buffer
	err := buildTemplate.Execute(&buf, buildData{
		Dependencies:    dependencies,
		ArchiveBaseName: ArchiveBaseName,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", BuildFileName, err)
	}
	return buf.Bytes(), nil
}

var kotlinEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// kotlinString quotes s as a Kotlin string literal.
func kotlinString(s string) string {
	return `"` + kotlinEscaper.Replace(s) + `"`
}
