// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestHelperProcess(t *testing.T) { HelperProcess() }

func TestCommandRecorder_Behaviors(t *testing.T) {
	t.Parallel()
	r := NewCommandRecorder()
	r.SetDefault(Behavior{Stdout: "default"})
	r.On("fail", Behavior{ExitCode: 7, Stderr: "boom"})

	fn := r.CommandFunc(t)

	var out bytes.Buffer
	cmd := fn(context.Background(), "tool", "ok", "x")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("default command failed: %v", err)
	}
	if out.String() != "default" {
		t.Errorf("stdout = %q, want %q", out.String(), "default")
	}

	err := fn(context.Background(), "tool", "fail").Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 7 {
		t.Errorf("expected exit code 7, got %v", err)
	}

	if got := r.Subcommands(); len(got) != 2 || got[0] != "ok" || got[1] != "fail" {
		t.Errorf("Subcommands() = %v", got)
	}
	inv, ok := r.Find("ok")
	if !ok || inv.Name != "tool" || !HasArgPair(inv.Args, "ok", "x") {
		t.Errorf("Find(ok) = %+v, %v", inv, ok)
	}
}

func TestCommandRecorder_CreateFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	r := NewCommandRecorder()
	r.SetDefault(Behavior{CreateFile: "build/libs/out.jar"})

	cmd := r.CommandFunc(t)(context.Background(), "gradle")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !Exists(filepath.Join(dir, "build", "libs", "out.jar")) {
		t.Error("helper process did not create the file")
	}
}
