// SPDX-License-Identifier: MPL-2.0

// Package builder compiles the configured extension sources into a single
// shaded JAR. Each build scaffolds a throwaway Gradle project under the
// project root, runs the Gradle wrapper in it and moves the produced
// artifact to the output directory. The scratch project is always removed.
package builder
