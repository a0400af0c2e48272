package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/amonks/tasktrack/task"
)

var (
	idPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dangerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyles = map[task.Status]lipgloss.Style{
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		task.StatusPostponed:  warningStyle,
		task.StatusCancelled:  mutedStyle,
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}

	focusStyles = map[task.Focus]lipgloss.Style{
		task.FocusLow:      mutedStyle,
		task.FocusMedium:   lipgloss.NewStyle(),
		task.FocusHigh:     warningStyle,
		task.FocusCritical: dangerStyle,
	}
)

// ColorEnabled reports whether stdout should receive ANSI styling.
var ColorEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func render(style lipgloss.Style, value string) string {
	if value == "" || !ColorEnabled() {
		return value
	}
	return style.Render(value)
}

// StatusLabel renders a status for display.
func StatusLabel(status task.Status) string {
	return render(statusStyles[status], status.Label())
}

// FocusLabel renders a focus level for display.
func FocusLabel(focus task.Focus) string {
	return render(focusStyles[focus], string(focus))
}

// Warning renders text in the warning color.
func Warning(value string) string {
	return render(warningStyle, value)
}

// Danger renders text in the danger color.
func Danger(value string) string {
	return render(dangerStyle, value)
}

// Muted renders de-emphasized text.
func Muted(value string) string {
	return render(mutedStyle, value)
}
