// SPDX-License-Identifier: MPL-2.0

// Package launcher runs the WireMock container in the foreground with the
// built extensions, the mappings and the __files directory mounted.
//
// A Launcher is single-use and moves through Idle, Starting, Running,
// Stopping and Stopped; Failed is terminal and reached when the container
// cannot be started. While the container runs, an exit hook watches for
// SIGINT, SIGTERM and cancellation of the parent context. It fires at most
// once and stops the container by name. Its failure is logged and never
// changes the result of Run.
package launcher
