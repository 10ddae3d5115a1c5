package varinspect

import "github.com/charmbracelet/lipgloss"

// Terminal styles shared by the reporters.
// Lipgloss degrades colors based on terminal capabilities.
var (
	// StyleCyan is used for layer headers and section titles.
	StyleCyan = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// StyleYellow is used for unbound values and diagnostics.
	StyleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	// StyleGreen is used for suggestions.
	StyleGreen = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	// StyleGray is used for ids, hints and layer types.
	StyleGray = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// StyleLocalPill renders a local variable name.
	StyleLocalPill = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4")).Padding(0, 1)
	// StyleExternalPill renders an external or unresolved variable name.
	StyleExternalPill = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("5")).Padding(0, 1)
)

// RenderStyle applies a style when colors are enabled
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// renderPill renders a variable reference; without colors external
// variables are marked with a trailing "*"
func renderPill(o AggregatedObservation, useColors bool) string {
	name := string(o.VariableID)
	external := true
	if o.Variable != nil {
		name = o.Variable.Name
		external = o.Variable.Origin == OriginExternal
	}
	if o.Variable != nil && o.Variable.ColorValue != nil {
		name += " " + FormatColor(*o.Variable.ColorValue)
	}
	if !useColors {
		if external {
			return "{" + name + "}*"
		}
		return "{" + name + "}"
	}
	if external {
		return StyleExternalPill.Render(name)
	}
	return StyleLocalPill.Render(name)
}
