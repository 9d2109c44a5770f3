// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/exp/slices"

	"wdee-cli/internal/testutil"
)

func wiremockRunOptions() RunOptions {
	return RunOptions{
		Image:  "wiremock/wiremock:3.13.1",
		Name:   "wiremock-docker-easy-extensions",
		Remove: true,
		Ports:  []PortMapping{{HostPort: 9090, ContainerPort: 8080}},
		Volumes: []VolumeMount{
			{HostPath: "/cfg/mappings", ContainerPath: "/home/wiremock/mappings"},
			{HostPath: "/cfg/__files", ContainerPath: "/home/wiremock/__files"},
			{HostPath: "/proj/build/extensions", ContainerPath: "/var/wiremock/extensions/"},
		},
		Command: []string{"--verbose", "--global-response-templating"},
	}
}

func TestBaseCLIEngine_RunArgs(t *testing.T) {
	t.Parallel()
	e := NewBaseCLIEngine("docker")

	got := e.RunArgs(wiremockRunOptions())
	want := []string{
		"run", "--rm", "--name", "wiremock-docker-easy-extensions",
		"-p", "9090:8080",
		"-v", "/cfg/mappings:/home/wiremock/mappings",
		"-v", "/cfg/__files:/home/wiremock/__files",
		"-v", "/proj/build/extensions:/var/wiremock/extensions/",
		"wiremock/wiremock:3.13.1",
		"--verbose", "--global-response-templating",
	}
	if !slices.Equal(got, want) {
		t.Errorf("RunArgs() =\n%v\nwant\n%v", got, want)
	}
}

func TestBaseCLIEngine_RunArgs_Minimal(t *testing.T) {
	t.Parallel()
	got := NewBaseCLIEngine("docker").RunArgs(RunOptions{Image: "alpine"})
	if !slices.Equal(got, []string{"run", "alpine"}) {
		t.Errorf("RunArgs() = %v", got)
	}
}

func TestBaseCLIEngine_StopAndRemoveArgs(t *testing.T) {
	t.Parallel()
	e := NewBaseCLIEngine("docker")

	if got := e.StopArgs("mock"); !slices.Equal(got, []string{"stop", "mock"}) {
		t.Errorf("StopArgs() = %v", got)
	}
	if got := e.RemoveArgs("mock", true); !slices.Equal(got, []string{"rm", "-f", "mock"}) {
		t.Errorf("RemoveArgs(force) = %v", got)
	}
	if got := e.RemoveArgs("mock", false); !slices.Equal(got, []string{"rm", "mock"}) {
		t.Errorf("RemoveArgs() = %v", got)
	}
}

func TestBaseCLIEngine_VolumeFormatter(t *testing.T) {
	t.Parallel()
	e := NewBaseCLIEngine("podman", WithVolumeFormatter(func(v VolumeMount) string { return v.String() + ":z" }))

	args := e.RunArgs(RunOptions{Image: "img", Volumes: []VolumeMount{{HostPath: "/a", ContainerPath: "/b"}}})
	if !testutil.HasArgPair(args, "-v", "/a:/b:z") {
		t.Errorf("formatter not applied: %v", args)
	}
}

func TestDockerEngine_Run(t *testing.T) {
	t.Parallel()
	engine, recorder, stdout := newMockDocker(t)
	recorder.On("run", testutil.Behavior{Stdout: "wiremock up"})

	result, err := engine.Run(context.Background(), wiremockRunOptions())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Error != nil || !result.ExitCode.IsSuccess() {
		t.Fatalf("Run() result = %+v", result)
	}
	if stdout.String() != "wiremock up" {
		t.Errorf("container output not forwarded, got %q", stdout.String())
	}

	inv, ok := recorder.Find("run")
	if !ok {
		t.Fatal("run was not invoked")
	}
	if inv.Name != "docker" {
		t.Errorf("binary = %q, want docker", inv.Name)
	}
	if !testutil.HasArgPair(inv.Args, "--name", "wiremock-docker-easy-extensions") {
		t.Errorf("missing --name: %v", inv.Args)
	}
}

func TestDockerEngine_Run_NonZeroExit(t *testing.T) {
	t.Parallel()
	engine, recorder, _ := newMockDocker(t)
	recorder.On("run", testutil.Behavior{ExitCode: 125})

	result, err := engine.Run(context.Background(), wiremockRunOptions())
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", err)
	}
	if result.ExitCode != 125 || result.Error != nil {
		t.Errorf("Run() result = %+v, want exit 125", result)
	}
}

func TestDockerEngine_Run_SurvivesCancellation(t *testing.T) {
	t.Parallel()
	engine, recorder, _ := newMockDocker(t)
	recorder.On("run", testutil.Behavior{Stdout: "done"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Run(ctx, wiremockRunOptions())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.ExitCode.IsSuccess() {
		t.Errorf("a cancelled context must not kill the engine process, got %+v", result)
	}
}

func TestDockerEngine_Run_SpawnFailure(t *testing.T) {
	t.Parallel()
	engine := NewDockerEngine(WithBinaryPath(filepath.Join(t.TempDir(), "no-docker")))

	result, err := engine.Run(context.Background(), wiremockRunOptions())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Error == nil {
		t.Fatal("expected RunResult.Error for a missing binary")
	}
	if result.ExitCode.IsSuccess() {
		t.Error("spawn failure must not report success")
	}
}

func TestDockerEngine_Run_InvalidOptions(t *testing.T) {
	t.Parallel()
	engine, recorder, _ := newMockDocker(t)

	_, err := engine.Run(context.Background(), RunOptions{Ports: []PortMapping{{HostPort: 0, ContainerPort: 8080}}})
	if !errors.Is(err, ErrInvalidRunOptions) {
		t.Fatalf("Run() error = %v, want ErrInvalidRunOptions", err)
	}
	if len(recorder.Invocations()) != 0 {
		t.Error("no command may run for invalid options")
	}
}

func TestDockerEngine_StopRemove(t *testing.T) {
	t.Parallel()
	engine, recorder, _ := newMockDocker(t)
	recorder.On("stop", testutil.Behavior{ExitCode: 1, Stderr: "No such container: mock"})

	err := engine.Stop(context.Background(), "mock")
	if err == nil || !strings.Contains(err.Error(), "No such container") {
		t.Errorf("Stop() error = %v, want stderr in message", err)
	}
	if err := engine.Remove(context.Background(), "mock", true); err != nil {
		t.Errorf("Remove() error = %v", err)
	}

	if got := recorder.Subcommands(); !slices.Equal(got, []string{"stop", "rm"}) {
		t.Errorf("Subcommands() = %v", got)
	}
	inv, _ := recorder.Find("rm")
	if !slices.Equal(inv.Args, []string{"rm", "-f", "mock"}) {
		t.Errorf("rm args = %v", inv.Args)
	}
}

func TestDockerEngine_Version(t *testing.T) {
	t.Parallel()
	engine, recorder, _ := newMockDocker(t)
	recorder.On("version", testutil.Behavior{Stdout: "27.3.1\n"})

	v, err := engine.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v != "27.3.1" {
		t.Errorf("Version() = %q", v)
	}
	if !engine.Available() {
		t.Error("Available() = false with a responding binary")
	}
}

func TestAddSELinuxLabel(t *testing.T) {
	enforce := filepath.Join(t.TempDir(), "enforce")
	old := selinuxEnforcePath
	selinuxEnforcePath = enforce
	t.Cleanup(func() { selinuxEnforcePath = old })

	v := VolumeMount{HostPath: "/a", ContainerPath: "/b"}
	if got := addSELinuxLabel(v); got != "/a:/b" {
		t.Errorf("without SELinux got %q", got)
	}

	testutil.MustWriteFile(t, enforce, "1\n")
	if got := addSELinuxLabel(v); got != "/a:/b:z" {
		t.Errorf("with SELinux got %q", got)
	}
	v.ReadOnly = true
	if got := addSELinuxLabel(v); got != "/a:/b:ro,z" {
		t.Errorf("read-only with SELinux got %q", got)
	}

	if err := os.WriteFile(enforce, []byte("0"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := addSELinuxLabel(v); got != "/a:/b:ro" {
		t.Errorf("permissive SELinux got %q", got)
	}
}
