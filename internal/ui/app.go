// Package ui implements the terminal user interface for treescan using Bubbletea.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/treescan/internal/core"
	"github.com/lumipallolabs/treescan/internal/logging"
	"github.com/lumipallolabs/treescan/internal/scanner"
)

// maxEventBatch bounds how many queued events one message carries
const maxEventBatch = 512

// eventsMsg carries controller events drained in one go
type eventsMsg struct {
	events []core.Event
	closed bool
}

// actionDoneMsg is sent when a controller command returns
type actionDoneMsg struct {
	err error
}

// patternResultMsg is sent when a pattern edit has been applied or rejected
type patternResultMsg struct {
	err error
}

// editField identifies which value the editor changes
type editField int

const (
	editNone editField = iota
	editRoot
	editPattern
)

// App is the main application model
type App struct {
	ctrl   *core.Controller
	events <-chan core.Event

	// Components
	header Header
	tree   TreePanel
	help   HelpOverlay
	input  textinput.Model

	// State
	keys    KeyMap
	editing editField
	phase   core.ScanPhase
	err     error

	// Dimensions
	width  int
	height int
}

// NewApp creates an application driving ctrl
func NewApp(ctrl *core.Controller) App {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 4096

	a := App{
		ctrl:   ctrl,
		events: ctrl.Events(),
		header: NewHeader(),
		tree:   NewTreePanel(),
		help:   NewHelpOverlay(),
		input:  input,
		keys:   DefaultKeyMap(),
	}
	a.tree.SetFocused(true)

	state := ctrl.State()
	a.header.SetState(state)
	a.phase = state.Phase
	a.err = state.Err
	return a
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("TREESCAN"), waitForEvents(a.events))
}

// waitForEvents blocks for the next event, then takes whatever else is
// already queued
func waitForEvents(ch <-chan core.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsMsg{closed: true}
		}
		batch := []core.Event{ev}
		for len(batch) < maxEventBatch {
			select {
			case ev, ok := <-ch:
				if !ok {
					return eventsMsg{events: batch, closed: true}
				}
				batch = append(batch, ev)
			default:
				return eventsMsg{events: batch}
			}
		}
		return eventsMsg{events: batch}
	}
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.update(msg)
	next.updateLayout()
	return next, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case eventsMsg:
		var cmds []tea.Cmd
		for _, ev := range msg.events {
			cmds = append(cmds, a.applyEvent(ev))
		}
		a.tree.Refresh()
		if !msg.closed {
			cmds = append(cmds, waitForEvents(a.events))
		}
		return a, tea.Batch(cmds...)

	case actionDoneMsg:
		if msg.err != nil {
			a.err = msg.err
		}
		return a, a.syncState()

	case patternResultMsg:
		if msg.err != nil {
			// Keep the editor open so the pattern can be fixed
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.stopEditing()
		return a, a.syncState()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.header, cmd = a.header.Update(msg)
		return a, cmd
	}

	if a.editing != editNone {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// applyEvent folds one controller event into the view
func (a *App) applyEvent(ev core.Event) tea.Cmd {
	switch e := ev.(type) {
	case core.ScanStartedEvent:
		logging.Debug.Printf("[UI] scan %s started", e.SessionID)
		a.tree.Reset(e.Tree, e.Root)
		a.header.SetProgress(scanner.Progress{})
		a.header.SetElapsed(0)
		a.err = nil
	case core.NodeCreatedEvent:
		a.tree.Add(e.Parent, e.Node)
	case core.ScanProgressEvent:
		a.header.SetProgress(e.Progress)
	case core.ElapsedEvent:
		a.header.SetElapsed(e.Elapsed)
	case core.PhaseChangedEvent:
		a.phase = e.Phase
		return a.header.SetPhase(e.Phase)
	case core.ScanCompletedEvent:
		logging.Debug.Printf("[UI] scan complete: %s", e.Counts)
		a.header.SetElapsed(e.Elapsed)
		return a.syncState()
	case core.ErrorEvent:
		a.err = e.Err
	}
	return nil
}

// syncState refreshes the header from a controller snapshot
func (a *App) syncState() tea.Cmd {
	state := a.ctrl.State()
	a.header.SetState(state)
	a.phase = state.Phase
	return a.header.SetPhase(state.Phase)
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.editing != editNone {
		return a.handleEditorKey(msg)
	}

	// Help overlay takes precedence
	if a.help.IsVisible() {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Back) {
			a.help.SetVisible(false)
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()
		return a, nil

	case key.Matches(msg, a.keys.StartPause):
		ctrl := a.ctrl
		if a.ctrl.State().IsScanning() {
			return a, func() tea.Msg {
				ctrl.Pause()
				return actionDoneMsg{}
			}
		}
		return a, func() tea.Msg {
			return actionDoneMsg{err: ctrl.Start()}
		}

	case key.Matches(msg, a.keys.Cancel):
		ctrl := a.ctrl
		return a, func() tea.Msg {
			ctrl.Cancel()
			return actionDoneMsg{}
		}

	case key.Matches(msg, a.keys.EditRoot):
		return a, a.startEditing(editRoot, a.ctrl.State().Root)

	case key.Matches(msg, a.keys.EditPattern):
		return a, a.startEditing(editPattern, a.ctrl.State().Pattern)

	case key.Matches(msg, a.keys.Reveal):
		dir := a.tree.SelectedDir()
		if dir == "" {
			return a, nil
		}
		return a, func() tea.Msg {
			logging.Debug.Printf("[UI] reveal %s", dir)
			if err := revealInFileManager(dir); err != nil {
				return actionDoneMsg{err: fmt.Errorf("open %s: %w", dir, err)}
			}
			return actionDoneMsg{}
		}

	case key.Matches(msg, a.keys.Up):
		a.tree.MoveUp()
	case key.Matches(msg, a.keys.Down):
		a.tree.MoveDown()
	case key.Matches(msg, a.keys.Left):
		a.tree.Collapse()
	case key.Matches(msg, a.keys.Right):
		a.tree.Expand()
	case key.Matches(msg, a.keys.Enter):
		a.tree.Toggle()
	case key.Matches(msg, a.keys.Top):
		a.tree.GoToTop()
	case key.Matches(msg, a.keys.Bottom):
		a.tree.GoToBottom()
	case key.Matches(msg, a.keys.PageUp):
		a.tree.PageUp()
	case key.Matches(msg, a.keys.PageDown):
		a.tree.PageDown()
	case key.Matches(msg, a.keys.Back):
		a.err = nil
	}
	return a, nil
}

func (a *App) startEditing(field editField, value string) tea.Cmd {
	a.editing = field
	a.input.SetValue(value)
	a.input.CursorEnd()
	return a.input.Focus()
}

func (a *App) stopEditing() {
	a.editing = editNone
	a.input.Blur()
}

// handleEditorKey routes keys to the root or pattern editor
func (a App) handleEditorKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.stopEditing()
		return a, nil

	case tea.KeyEnter:
		ctrl := a.ctrl
		value := a.input.Value()
		if a.editing == editPattern {
			return a, func() tea.Msg {
				return patternResultMsg{err: ctrl.SetPattern(value)}
			}
		}
		a.stopEditing()
		return a, func() tea.Msg {
			ctrl.SetRootPath(value)
			return actionDoneMsg{}
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// updateLayout calculates component sizes based on window dimensions
func (a *App) updateLayout() {
	a.header.SetWidth(a.width)
	a.help.SetSize(a.width, a.height)
	a.input.Width = a.width - 16

	used := headerHeight + 1 // help bar
	if a.editing != editNone {
		used += 3
	}
	if a.err != nil {
		used++
	}

	// Borders take two lines and two columns
	panelHeight := a.height - used - 2
	if panelHeight < 1 {
		panelHeight = 1
	}
	panelWidth := a.width - 2
	if panelWidth < 10 {
		panelWidth = 10
	}
	a.tree.SetSize(panelWidth, panelHeight)
}

func (a App) editorView() string {
	label := "Root"
	if a.editing == editPattern {
		label = "Pattern"
	}
	return EditorStyle.Width(a.width - 2).Render(HelpKey.Render(label+" ") + a.input.View())
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	sections := []string{a.header.View()}

	if a.editing != editNone {
		sections = append(sections, a.editorView())
	}

	if a.err != nil {
		sections = append(sections, ErrorStyle.MaxWidth(a.width).Render(fmt.Sprintf("Error: %v", a.err)))
	}

	sections = append(sections, a.tree.View(), HelpBar(a.keys, a.width))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Help overlay on top if visible
	if a.help.IsVisible() {
		return a.help.View(a.keys)
	}

	return content
}
