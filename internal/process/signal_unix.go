// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

func signalOf(exitErr *exec.ExitError) (int, bool) {
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return 0, false
	}
	return int(status.Signal()), true
}
