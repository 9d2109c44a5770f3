// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// The build pipeline picks the Gradle wrapper flavor and file modes from the
// host operating system; this package centralizes those decisions so they can
// be exercised for every OS from a single test run.
package platform
