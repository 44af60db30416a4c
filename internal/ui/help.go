package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay displays keyboard shortcuts in a centered overlay
type HelpOverlay struct {
	model   help.Model
	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates a new help overlay component
func NewHelpOverlay() HelpOverlay {
	m := newHelpModel()
	m.ShowAll = true
	return HelpOverlay{model: m}
}

func newHelpModel() help.Model {
	m := help.New()
	m.Styles.ShortKey = HelpKey
	m.Styles.FullKey = HelpKey
	m.Styles.ShortDesc = HelpStyle.UnsetPadding()
	m.Styles.FullDesc = lipgloss.NewStyle().Foreground(ColorText)
	m.ShortSeparator = "  |  "
	return m
}

// Toggle toggles the visibility of the help overlay
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// SetVisible sets the visibility of the help overlay
func (h *HelpOverlay) SetVisible(visible bool) {
	h.visible = visible
}

// IsVisible returns whether the help overlay is visible
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// SetSize sets the dimensions of the help overlay
func (h *HelpOverlay) SetSize(w, ht int) {
	h.width = w
	h.height = ht
}

// View renders the help overlay
func (h HelpOverlay) View(keys KeyMap) string {
	if !h.visible {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		h.model.View(keys),
	)
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}

// HelpBar renders a bottom help bar with key hints
func HelpBar(keys KeyMap, width int) string {
	m := newHelpModel()
	m.Width = width
	return HelpStyle.Width(width).Render(m.View(keys))
}
