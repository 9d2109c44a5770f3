// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the command descriptions and verbose error output.
const (
	// ColorPrimary is purple - used for titles.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray - used for subtitles and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorWarning is amber - used for section labels.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorVerbose is light gray - used for verbose details.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// renderLabelStyle is for section labels in verbose error output (bold amber).
	renderLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWarning)

	// renderValueStyle is for error chains in verbose output (gray).
	renderValueStyle = lipgloss.NewStyle().
				Foreground(ColorVerbose)
)
