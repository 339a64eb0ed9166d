// Package styles defines the terminal palette and lipgloss styles shared by
// console output. Colors adapt to light and dark backgrounds.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorError   = lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF5555"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F1FA8C"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#50FA7B"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0366D6", Dark: "#8BE9FD"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6A737D", Dark: "#6272A4"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#6F42C1", Dark: "#BD93F9"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#D1D5DA", Dark: "#44475A"}
)

var (
	Error   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	Info    = lipgloss.NewStyle().Foreground(ColorInfo)
	Verbose = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	// Location styles a file:line:column prefix.
	Location = lipgloss.NewStyle().Bold(true)
	// Path styles a document path such as pipelines.default[0].step.
	Path = lipgloss.NewStyle().Foreground(ColorAccent)
	// Kind styles a diagnostic kind tag.
	Kind = lipgloss.NewStyle().Foreground(ColorMuted)

	TableHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo).Padding(0, 1)
	TableCell   = lipgloss.NewStyle().Padding(0, 1)
	TableBorder = lipgloss.NewStyle().Foreground(ColorBorder)
)
