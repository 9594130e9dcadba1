// Package style provides shared styling primitives including brand colors
// and icons for consistent reports across the CLI.
package style

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Plus    = "+"
	Minus   = "-"
)

// Palette holds the styles of one output stream. Colors are dropped when the
// stream is not a terminal or NO_COLOR is set.
type Palette struct {
	OK      lipgloss.Style
	Warn    lipgloss.Style
	Fail    lipgloss.Style
	Accent  lipgloss.Style
	Subtle  lipgloss.Style
	Heading lipgloss.Style
}

// NewPalette creates the styles for w.
func NewPalette(w io.Writer) Palette {
	r := lipgloss.NewRenderer(w)
	return Palette{
		OK:      r.NewStyle().Foreground(Green),
		Warn:    r.NewStyle().Foreground(Yellow),
		Fail:    r.NewStyle().Foreground(Red),
		Accent:  r.NewStyle().Foreground(Iris),
		Subtle:  r.NewStyle().Foreground(Slate),
		Heading: r.NewStyle().Bold(true),
	}
}
