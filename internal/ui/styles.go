package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorSuccess = lipgloss.Color("#73F59F")
	ColorWarning = lipgloss.Color("#F5A623")
	ColorDanger  = lipgloss.Color("#F56565")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorBorder  = lipgloss.Color("#3F3F46")
	ColorText    = lipgloss.Color("#E4E4E7")
	ColorDir     = lipgloss.Color("#22D3EE") // neon cyan
	ColorFile    = lipgloss.Color("#A1A1AA")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F1F23")).
			Padding(0, 1)

	AppNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C084FC")). // soft violet
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Phase badges
	PhaseRunning = lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1).
			Bold(true)

	PhasePaused = lipgloss.NewStyle().
			Background(lipgloss.Color("#451A03")).
			Foreground(ColorWarning).
			Padding(0, 1).
			Bold(true)

	PhaseIdle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3F3F46")).
			Foreground(lipgloss.Color("#A1A1AA")).
			Padding(0, 1)

	PhaseDone = lipgloss.NewStyle().
			Background(lipgloss.Color("#14532D")).
			Foreground(ColorSuccess).
			Padding(0, 1).
			Bold(true)

	// Tree
	TreePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TreeItemSelected = lipgloss.NewStyle().
				Background(ColorPrimary).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	TreeItemSelectedUnfocused = lipgloss.NewStyle().
					Background(lipgloss.Color("#3F3F46")).
					Foreground(ColorText)

	// Editors
	EditorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Padding(0, 1)

	// Help bar
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
)

// FormatElapsed formats a duration as hh:mm:ss
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}
