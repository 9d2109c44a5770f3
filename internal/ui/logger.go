// SPDX-License-Identifier: MPL-2.0

package ui

import (
	"io"

	"github.com/charmbracelet/log"
)

// LoggerPrefix is shown in front of every diagnostic log record.
const LoggerPrefix = "wdee"

// NewLogger creates the diagnostic logger. Records below warn level are only
// emitted in verbose mode.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = io.Discard
	}
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          LoggerPrefix,
		Level:           level,
		ReportTimestamp: verbose,
	})
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *log.Logger {
	return NewLogger(io.Discard, false)
}
