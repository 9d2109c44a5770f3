// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by the package tests.
//
// CommandRecorder replaces exec.CommandContext with a re-run of the test
// binary (the TestHelperProcess pattern). ContainerSemaphore bounds tests
// that talk to a real container engine.
package testutil
