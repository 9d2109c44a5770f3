// SPDX-License-Identifier: MPL-2.0

package launcher

const (
	// StateIdle indicates the launcher was created but Run was not called.
	StateIdle State = iota
	// StateStarting covers pre-cleanup and arming the exit hook.
	StateStarting
	// StateRunning indicates the container process is in the foreground.
	StateRunning
	// StateStopping indicates the exit hook is stopping the container.
	StateStopping
	// StateStopped is terminal: the container exited.
	StateStopped
	// StateFailed is terminal: the container could not be started.
	StateFailed
)

// State represents the lifecycle state of a Launcher.
type State int32

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the state is Stopped or Failed.
func (s State) IsTerminal() bool {
	return s == StateStopped || s == StateFailed
}
