// SPDX-License-Identifier: MPL-2.0

//go:build windows

package process

import "os/exec"

func signalOf(*exec.ExitError) (int, bool) {
	return 0, false
}
