// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Current returns the GOOS of the running binary.
func Current() string {
	return runtime.GOOS
}

// IsWindows reports whether goos names a Windows host. The comparison is
// case-insensitive so values read from the environment are accepted as-is.
func IsWindows(goos string) bool {
	return strings.EqualFold(strings.TrimSpace(goos), Windows)
}

// SupportsExecBit reports whether files on goos carry a POSIX executable bit
// that must be set before a script can be spawned directly.
func SupportsExecBit(goos string) bool {
	return !IsWindows(goos)
}
