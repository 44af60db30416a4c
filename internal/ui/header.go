package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/treescan/internal/core"
	"github.com/lumipallolabs/treescan/internal/model"
	"github.com/lumipallolabs/treescan/internal/scanner"
)

// headerHeight is the number of lines the header occupies
const headerHeight = 2

// Header displays the scan target, phase and counters
type Header struct {
	width    int
	phase    core.ScanPhase
	root     string
	pattern  string
	current  string
	counts   model.FindAndAll
	elapsed  time.Duration
	started  time.Time
	watching bool
	spinner  spinner.Model
	ticking  bool
}

// NewHeader creates a new header component
func NewHeader() Header {
	return Header{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorDir)),
		),
	}
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// SetState copies everything shown from a controller snapshot
func (h *Header) SetState(s core.ScanState) {
	h.phase = s.Phase
	h.root = s.Root
	h.pattern = s.Pattern
	h.current = s.CurrentPath
	h.counts = s.Counts
	h.elapsed = s.Elapsed
	h.started = s.StartTime
	h.watching = s.Watching
}

// SetPhase sets the phase and returns a command when the spinner must start
func (h *Header) SetPhase(p core.ScanPhase) tea.Cmd {
	h.phase = p
	if p == core.PhaseRunning && !h.ticking {
		h.ticking = true
		return h.spinner.Tick
	}
	return nil
}

// SetProgress sets the current path and counters
func (h *Header) SetProgress(p scanner.Progress) {
	h.current = p.CurrentPath
	h.counts = p.Counts
}

// SetElapsed sets the elapsed time
func (h *Header) SetElapsed(d time.Duration) {
	h.elapsed = d
}

// Counts returns the displayed counters
func (h Header) Counts() model.FindAndAll {
	return h.counts
}

// Update animates the spinner while scanning
func (h Header) Update(msg tea.Msg) (Header, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return h, nil
	}
	if h.phase != core.PhaseRunning {
		h.ticking = false
		return h, nil
	}
	var cmd tea.Cmd
	h.spinner, cmd = h.spinner.Update(msg)
	return h, cmd
}

func (h Header) phaseBadge() string {
	label := h.phase.String()
	switch h.phase {
	case core.PhaseRunning:
		return PhaseRunning.Render(h.spinner.View() + label)
	case core.PhasePaused:
		return PhasePaused.Render(label)
	case core.PhaseCompleted:
		if h.watching {
			label += " · watching"
		}
		return PhaseDone.Render(label)
	default:
		return PhaseIdle.Render(label)
	}
}

// View renders the header
func (h Header) View() string {
	appName := AppNameStyle.Render("TREESCAN")
	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")

	root := h.root
	if root == "" {
		root = "(no root)"
	}
	target := LabelStyle.Render("root ") + StatsStyle.Render(root) +
		LabelStyle.Render("  pattern ") + StatsStyle.Render(h.pattern)

	stats := StatsStyle.Render(fmt.Sprintf("%s  %s", h.counts, FormatElapsed(h.elapsed)))
	if !h.started.IsZero() {
		stats = LabelStyle.Render("since "+h.started.Format("15:04:05")+"  ") + stats
	}

	left := appName + sep + h.phaseBadge() + " " + target
	gap := h.width - lipgloss.Width(left) - lipgloss.Width(stats) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + stats

	current := h.current
	if current == "" {
		current = " "
	}
	maxW := h.width - 2
	if maxW < 1 {
		maxW = 1
	}
	path := LabelStyle.MaxWidth(maxW).Render(truncateLeft(current, maxW))

	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.MaxHeight(1).Render(line),
		HeaderStyle.MaxHeight(1).Render(path),
	)
}

// truncateLeft keeps the tail of s, which is the informative end of a path
func truncateLeft(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 2 {
		return s
	}
	return "…" + string(r[len(r)-width+1:])
}
