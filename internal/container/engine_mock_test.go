// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"testing"

	"wdee-cli/internal/testutil"
)

// TestHelperProcess is re-run by the command recorder to simulate the engine CLI.
func TestHelperProcess(t *testing.T) { testutil.HelperProcess() }

// newMockDocker returns a DockerEngine whose commands are answered by the recorder.
func newMockDocker(t *testing.T) (*DockerEngine, *testutil.CommandRecorder, *bytes.Buffer) {
	t.Helper()
	recorder := testutil.NewCommandRecorder()
	var stdout bytes.Buffer
	engine := NewDockerEngine(
		WithBinaryPath("docker"),
		WithExecCommand(recorder.CommandFunc(t)),
		WithStdio(nil, &stdout, &bytes.Buffer{}),
	)
	return engine, recorder, &stdout
}
