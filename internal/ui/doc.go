// SPDX-License-Identifier: MPL-2.0

// Package ui holds the terminal-facing output of wdee. Every user-visible
// message goes through the icon-prefixed Printer; debug records go to the
// charmbracelet/log logger built by NewLogger.
package ui
