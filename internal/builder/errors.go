// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"errors"
	"fmt"

	"wdee-cli/pkg/types"
)

var (
	// ErrBuildFailed is the sentinel error wrapped by ProcessError.
	ErrBuildFailed = errors.New("gradle build failed")
	// ErrArtifactMissing is returned when Gradle exits successfully but the
	// bundled JAR does not exist.
	ErrArtifactMissing = errors.New("build finished but the bundled JAR was not produced")
)

// ProcessError is returned when the Gradle wrapper exits with a non-zero code.
type ProcessError struct {
	Code types.ExitCode
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("Process exited with code %s", e.Code)
}

func (e *ProcessError) Unwrap() error { return ErrBuildFailed }
