package ui

import "github.com/charmbracelet/lipgloss"

// Color palette, ANSI bright colors so that every profile above Ascii shows
// them the same way:
// - Eager: bright blue
// - Lazy: bright cyan
// - Predicate: bright magenta
// - Neutral (analysis off): blue
// - Expensive marker and error label: bright red, bold
const (
	colorBlue          = lipgloss.Color("4")
	colorBrightRed     = lipgloss.Color("9")
	colorBrightBlue    = lipgloss.Color("12")
	colorBrightMagenta = lipgloss.Color("13")
	colorBrightCyan    = lipgloss.Color("14")
)

// Styles holds the styles used to print a tree, bound to one renderer.
type Styles struct {
	Expensive lipgloss.Style
	Eager     lipgloss.Style
	Lazy      lipgloss.Style
	Predicate lipgloss.Style
	Neutral   lipgloss.Style
	Resolved  lipgloss.Style

	// Faint is used for labels and brackets.
	Faint lipgloss.Style

	ErrorLabel lipgloss.Style
}

// NewStyles creates the tree styles for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Expensive:  r.NewStyle().Foreground(colorBrightRed).Bold(true),
		Eager:      r.NewStyle().Foreground(colorBrightBlue),
		Lazy:       r.NewStyle().Foreground(colorBrightCyan),
		Predicate:  r.NewStyle().Foreground(colorBrightMagenta),
		Neutral:    r.NewStyle().Foreground(colorBlue),
		Resolved:   r.NewStyle(),
		Faint:      r.NewStyle().Faint(true),
		ErrorLabel: r.NewStyle().Foreground(colorBrightRed).Bold(true),
	}
}
