// SPDX-License-Identifier: MPL-2.0

package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - shared hex colors for consistent theming across all CLI output.
// These colors are designed for dark terminal backgrounds with good contrast.
const (
	// ColorPrimary is purple - used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - used for success states and checkmarks.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for errors and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings and skipped work.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for progress and container lifecycle messages.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

// Styles groups the lipgloss styles bound to one renderer. Styles created from
// a renderer follow that renderer's color profile, so output written to a pipe
// or a test buffer carries no escape sequences.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Progress lipgloss.Style
}

// NewStyles builds the palette styles for the given renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(ColorPrimary),
		Subtitle: r.NewStyle().Foreground(ColorMuted),
		Success:  r.NewStyle().Foreground(ColorSuccess),
		Error:    r.NewStyle().Bold(true).Foreground(ColorError),
		Warning:  r.NewStyle().Foreground(ColorWarning),
		Progress: r.NewStyle().Foreground(ColorHighlight),
	}
}
