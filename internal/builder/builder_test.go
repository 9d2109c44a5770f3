// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdee-cli/internal/config"
	"wdee-cli/internal/issue"
	"wdee-cli/internal/templates"
	"wdee-cli/internal/testutil"
	"wdee-cli/internal/ui"
)

func TestHelperProcess(t *testing.T) { testutil.HelperProcess() }

type fixture struct {
	cc       *config.Context
	recorder *testutil.CommandRecorder
	out      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "extensions")
	testutil.MustWriteFile(t, filepath.Join(src, "Hello.kt"), "package com.example\n\nclass Hello\n")

	return &fixture{
		cc: &config.Context{
			ConfigPath:          filepath.Join(root, config.ConfigFileName),
			ConfigDir:           root,
			ProjectRoot:         root,
			SourceFilesLocation: src,
			SourceFiles:         []string{"Hello.kt"},
			TempBuildDir:        filepath.Join(root, config.TempBuildDirName),
			OutputDir:           filepath.Join(root, "build", "extensions"),
			OutputJarName:       config.OutputJarName,
			TempJarPath:         config.TempJarPath,
			WrapperFiles:        config.WrapperFiles,
		},
		recorder: testutil.NewCommandRecorder(),
		out:      &bytes.Buffer{},
	}
}

func (f *fixture) builder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	base := []Option{
		WithPrinter(ui.NewPrinter(f.out)),
		WithExecCommand(f.recorder.CommandFunc(t)),
		WithOutput(io.Discard, io.Discard),
		WithGOOS("linux"),
	}
	return New(f.cc, append(base, opts...)...)
}

func TestBuild_Success(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.recorder.SetDefault(testutil.Behavior{CreateFile: config.TempJarPath})

	require.True(t, f.builder(t).Build(context.Background()))

	jar := f.cc.OutputJarPath()
	assert.FileExists(t, jar)
	assert.NoDirExists(t, f.cc.TempBuildDir)
	assert.Contains(t, f.out.String(), "⚙️ Compiling extensions and building JAR...")
	assert.Contains(t, f.out.String(), "✅ Created Service Loader for wiremock to discover extensions.")
	assert.Contains(t, f.out.String(), "✅ Success! Extension JAR created at: "+jar)

	invs := f.recorder.Invocations()
	require.Len(t, invs, 1)
	assert.Equal(t, "./gradlew", invs[0].Name)
	assert.Equal(t, []string{"shadowJar", "--no-daemon", "-q"}, invs[0].Args)
}

func TestBuild_OverwritesExistingJar(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.recorder.SetDefault(testutil.Behavior{CreateFile: config.TempJarPath})
	testutil.MustWriteFile(t, f.cc.OutputJarPath(), "stale")

	require.True(t, f.builder(t).Build(context.Background()))

	data, err := os.ReadFile(f.cc.OutputJarPath())
	require.NoError(t, err)
	assert.Equal(t, "artifact", string(data))
}

func TestBuild_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		behavior testutil.Behavior
		wantMsg  string
		wantIs   error
		wantId   issue.Id
	}{
		{
			name:     "gradle exits non-zero",
			behavior: testutil.Behavior{ExitCode: 1},
			wantMsg:  "❌ Error building extensions: Process exited with code 1",
			wantIs:   ErrBuildFailed,
			wantId:   issue.BuildFailedId,
		},
		{
			name:     "wrapper cannot provision gradle",
			behavior: testutil.Behavior{ExitCode: int(WrapperBootstrapExitCode)},
			wantMsg:  "❌ Error building extensions: Process exited with code 3",
			wantIs:   ErrBuildFailed,
			wantId:   issue.GradleWrapperFailedId,
		},
		{
			name:     "no artifact",
			behavior: testutil.Behavior{},
			wantMsg:  "❌ Error building extensions: " + ErrArtifactMissing.Error(),
			wantIs:   ErrArtifactMissing,
			wantId:   issue.ArtifactMissingId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.recorder.SetDefault(tt.behavior)
			b := f.builder(t)

			require.False(t, b.Build(context.Background()))

			assert.Contains(t, f.out.String(), tt.wantMsg)
			assert.NotContains(t, f.out.String(), "Success!")
			assert.NoDirExists(t, f.cc.TempBuildDir)
			assert.NoFileExists(t, f.cc.OutputJarPath())

			err := b.Err()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			var ae *issue.ActionableError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantId, ae.IssueId)
		})
	}
}

func TestBuild_FailureWithMissingSources(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.cc.SourceFiles = []string{"Hello.kt", "Gone.kt"}
	f.recorder.SetDefault(testutil.Behavior{ExitCode: 1})
	b := f.builder(t)

	require.False(t, b.Build(context.Background()))

	var ae *issue.ActionableError
	require.ErrorAs(t, b.Err(), &ae)
	assert.Equal(t, issue.SourceFilesMissingId, ae.IssueId)
	require.Len(t, ae.Suggestions, 1)
	assert.Contains(t, ae.Suggestions[0], "Gone.kt")
}

func TestBuild_WrapperBootstrapFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		want []string
	}{
		{"linux", []string{"curl or wget", "unzip"}},
		{"darwin", []string{"curl or wget", "unzip"}},
		{"windows", []string{"PowerShell"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.cc.SourceFiles = []string{"Hello.kt", "Gone.kt"}
			f.recorder.SetDefault(testutil.Behavior{ExitCode: int(WrapperBootstrapExitCode)})
			b := f.builder(t, WithGOOS(tt.goos))

			require.False(t, b.Build(context.Background()))

			var ae *issue.ActionableError
			require.ErrorAs(t, b.Err(), &ae)
			assert.Equal(t, issue.GradleWrapperFailedId, ae.IssueId)
			require.Len(t, ae.Suggestions, len(tt.want))
			for i, want := range tt.want {
				assert.Contains(t, ae.Suggestions[i], want)
			}
		})
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := f.builder(t)
	require.False(t, b.Build(ctx))
	assert.Empty(t, f.recorder.Invocations())
	assert.ErrorIs(t, b.Err(), context.Canceled)
}

func TestBuild_WindowsWrapper(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.recorder.SetDefault(testutil.Behavior{CreateFile: config.TempJarPath})

	require.True(t, f.builder(t, WithGOOS("windows")).Build(context.Background()))

	invs := f.recorder.Invocations()
	require.Len(t, invs, 1)
	assert.Equal(t, filepath.Join(f.cc.TempBuildDir, "gradlew.bat"), invs[0].Name)
}

func TestCopyWrapper_Modes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not preserved on windows")
	}
	t.Parallel()
	f := newFixture(t)
	dir := t.TempDir()

	require.NoError(t, f.builder(t).copyWrapper(dir))

	info, err := os.Stat(filepath.Join(dir, "gradlew"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dir, "gradle", "wrapper", "gradle-wrapper.properties"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCopyWrapper_MissingAssetWarns(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	fsys := fstest.MapFS{
		"gradlew": {Data: []byte("#!/bin/sh\n")},
	}
	dir := t.TempDir()

	require.NoError(t, f.builder(t, WithTemplates(templates.FromFS(fsys))).copyWrapper(dir))

	assert.FileExists(t, filepath.Join(dir, "gradlew"))
	assert.Contains(t, f.out.String(), "⚠️ Warning: Gradle wrapper file not found: gradlew.bat")
	assert.Contains(t, f.out.String(), "⚠️ Warning: Gradle wrapper file not found: gradle/wrapper/gradle-wrapper.properties")
}

func TestMoveFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jar")
	dest := filepath.Join(dir, "out", "b.jar")
	testutil.MustWriteFile(t, src, "jar")

	require.NoError(t, moveFile(src, dest))

	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jar", string(data))
}
