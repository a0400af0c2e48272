package boardtui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/amonks/tasktrack/task"
)

var (
	borderASCII = lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	tabBarStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	tabActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 1)

	paneStyle       = lipgloss.NewStyle().Border(borderASCII).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	paneActiveStyle = paneStyle.BorderForeground(lipgloss.Color("33"))

	tipStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle         = lipgloss.NewStyle().Bold(true)
	valueMuted         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warningStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	selectedBorder     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	modalStyle         = lipgloss.NewStyle().Border(borderASCII).Padding(1, 2)

	focusStyles = map[task.Focus]lipgloss.Style{
		task.FocusLow:      valueMuted,
		task.FocusMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.FocusHigh:     warningStyle,
		task.FocusCritical: statusErrorStyle.Bold(true),
	}
)
