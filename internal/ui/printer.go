// SPDX-License-Identifier: MPL-2.0

package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Icons prefixed to every diagnostic line.
const (
	IconPage       Icon = "📄"
	IconError      Icon = "❌"
	IconWarning    Icon = "⚠️"
	IconGreenCheck Icon = "✅"
	IconCog        Icon = "⚙️"
	IconRocket     Icon = "🚀"
	IconStop       Icon = "🛑"
)

// Icon is an emoji marker identifying the kind of a diagnostic line.
type Icon string

// String returns the emoji.
func (i Icon) String() string { return string(i) }

// Printer writes one icon-prefixed line per message. It is safe for
// concurrent use; the launcher's exit hook prints from its own goroutine.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
}

// NewPrinter creates a printer writing to w. Colors are only emitted when w
// is a terminal.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = io.Discard
	}
	return &Printer{
		w:      w,
		styles: NewStyles(lipgloss.NewRenderer(w)),
	}
}

// Print writes "<icon> <message>" followed by a newline.
func (p *Printer) Print(icon Icon, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", p.styleFor(icon).Render(icon.String()), message)
}

// Printf formats the message before printing it with the icon.
func (p *Printer) Printf(icon Icon, format string, args ...any) {
	p.Print(icon, fmt.Sprintf(format, args...))
}

// Println writes a plain line without an icon.
func (p *Printer) Println(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, message)
}

func (p *Printer) styleFor(icon Icon) lipgloss.Style {
	switch icon {
	case IconError:
		return p.styles.Error
	case IconWarning:
		return p.styles.Warning
	case IconGreenCheck:
		return p.styles.Success
	case IconCog, IconRocket, IconStop:
		return p.styles.Progress
	default:
		return p.styles.Subtitle
	}
}
