// SPDX-License-Identifier: MPL-2.0

// Package container drives the Docker and Podman command-line clients.
//
// The Engine interface covers what the run command needs: starting a
// foreground container with inherited standard streams, stopping it by name
// and removing it. DockerEngine and PodmanEngine both embed BaseCLIEngine,
// which builds the argument lists and executes them through an injectable
// ExecCommandFunc.
//
// NewEngine(EngineType) returns the preferred engine and falls back to the
// other one when the preferred binary is missing or its daemon is down.
package container
