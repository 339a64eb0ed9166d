// Package console formats human-readable CLI output. Styling is applied only
// when stderr is a terminal; otherwise every helper returns plain text.
package console

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nodix/pipeconf/pkg/styles"
	"github.com/nodix/pipeconf/pkg/tty"
)

// isTTY decides whether output is styled. Tests replace it.
var isTTY = tty.IsStderrTerminal

func applyStyle(style lipgloss.Style, text string) string {
	if !isTTY() {
		return text
	}
	return style.Render(text)
}

// FormatSuccessMessage formats a success message.
func FormatSuccessMessage(message string) string {
	return applyStyle(styles.Success, "✓ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(styles.Info, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(styles.Warning, "⚠ ") + message
}

// FormatErrorMessage formats an error message.
func FormatErrorMessage(message string) string {
	return applyStyle(styles.Error, "✗ ") + message
}

// FormatVerboseMessage formats a message shown only in verbose mode.
func FormatVerboseMessage(message string) string {
	return applyStyle(styles.Verbose, "· "+message)
}
