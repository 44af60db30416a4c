package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/treescan/internal/model"
)

// TreePanel displays the match tree. It is built only from node events and
// keeps its own child lists, so it never reads a tree the scan is growing.
type TreePanel struct {
	root      *model.Node
	rootPath  string
	children  map[*model.Node][]*model.Node
	collapsed map[*model.Node]bool
	nodes     int
	dirty     bool

	visible []row
	cursor  int
	offset  int // scroll offset
	width   int
	height  int
	focused bool
}

type row struct {
	node  *model.Node
	depth int
}

// NewTreePanel creates a new tree panel
func NewTreePanel() TreePanel {
	return TreePanel{
		children:  make(map[*model.Node][]*model.Node),
		collapsed: make(map[*model.Node]bool),
	}
}

// Reset starts over with an empty root; rootPath is its location on disk
func (t *TreePanel) Reset(root *model.Node, rootPath string) {
	t.root = root
	t.rootPath = rootPath
	t.children = make(map[*model.Node][]*model.Node)
	t.collapsed = make(map[*model.Node]bool)
	t.nodes = 0
	t.cursor = 0
	t.offset = 0
	t.dirty = true
	t.Refresh()
}

// Add appends node under parent, in the order nodes were created
func (t *TreePanel) Add(parent, node *model.Node) {
	if t.root == nil || parent == nil {
		return
	}
	t.children[parent] = append(t.children[parent], node)
	t.nodes++
	t.dirty = true
}

// Len returns the number of nodes added since the last Reset
func (t TreePanel) Len() int {
	return t.nodes
}

// Refresh rebuilds the visible rows after Add, keeping the selection
func (t *TreePanel) Refresh() {
	if !t.dirty {
		return
	}
	t.dirty = false

	selected := t.Selected()
	t.updateVisible()
	if selected != nil {
		for i, r := range t.visible {
			if r.node == selected {
				t.cursor = i
				break
			}
		}
	}
	t.clampCursor()
}

// SetSize sets the panel dimensions
func (t *TreePanel) SetSize(w, h int) {
	t.width = w
	t.height = h
	t.ensureVisible()
}

// SetFocused sets focus state
func (t *TreePanel) SetFocused(focused bool) {
	t.focused = focused
}

// Selected returns the currently selected node
func (t TreePanel) Selected() *model.Node {
	if t.cursor >= 0 && t.cursor < len(t.visible) {
		return t.visible[t.cursor].node
	}
	return nil
}

// SelectedDir returns the on-disk directory of the selection: the node
// itself for a directory, its parent for a file
func (t TreePanel) SelectedDir() string {
	node := t.Selected()
	if node == nil || t.rootPath == "" {
		return ""
	}
	if !node.IsDir && node.Parent != nil {
		node = node.Parent
	}
	return filepath.Join(t.rootPath, node.Path)
}

// MoveUp moves cursor up
func (t *TreePanel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureVisible()
	}
}

// MoveDown moves cursor down
func (t *TreePanel) MoveDown() {
	if t.cursor < len(t.visible)-1 {
		t.cursor++
		t.ensureVisible()
	}
}

// PageUp moves cursor up by a page
func (t *TreePanel) PageUp() {
	t.cursor -= t.pageSize()
	t.clampCursor()
}

// PageDown moves cursor down by a page
func (t *TreePanel) PageDown() {
	t.cursor += t.pageSize()
	t.clampCursor()
}

// GoToTop moves to first item
func (t *TreePanel) GoToTop() {
	t.cursor = 0
	t.offset = 0
}

// GoToBottom moves to last item
func (t *TreePanel) GoToBottom() {
	t.cursor = len(t.visible) - 1
	t.clampCursor()
}

// Collapse collapses current folder, or moves to its parent
func (t *TreePanel) Collapse() {
	node := t.Selected()
	if node == nil {
		return
	}
	if node.IsDir && !t.collapsed[node] && len(t.children[node]) > 0 {
		t.collapsed[node] = true
		t.dirty = true
		t.Refresh()
		return
	}
	for i, r := range t.visible {
		if r.node == node.Parent {
			t.cursor = i
			t.ensureVisible()
			return
		}
	}
}

// Expand expands current folder
func (t *TreePanel) Expand() {
	if node := t.Selected(); node != nil && node.IsDir && t.collapsed[node] {
		delete(t.collapsed, node)
		t.dirty = true
		t.Refresh()
	}
}

// Toggle toggles expand/collapse of current folder
func (t *TreePanel) Toggle() {
	node := t.Selected()
	if node == nil || !node.IsDir {
		return
	}
	if t.collapsed[node] {
		delete(t.collapsed, node)
	} else {
		t.collapsed[node] = true
	}
	t.dirty = true
	t.Refresh()
}

func (t *TreePanel) pageSize() int {
	size := t.height - 2
	if size < 1 {
		size = 1
	}
	return size
}

func (t *TreePanel) clampCursor() {
	if t.cursor >= len(t.visible) {
		t.cursor = len(t.visible) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureVisible()
}

func (t *TreePanel) ensureVisible() {
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	maxVisible := t.height - 2 // account for borders
	if maxVisible < 1 {
		maxVisible = 1
	}
	if t.cursor >= t.offset+maxVisible {
		t.offset = t.cursor - maxVisible + 1
	}
}

func (t *TreePanel) updateVisible() {
	t.visible = nil
	if t.root == nil {
		return
	}
	t.collectVisible(t.root, 0)
}

func (t *TreePanel) collectVisible(node *model.Node, depth int) {
	t.visible = append(t.visible, row{node: node, depth: depth})
	if t.collapsed[node] {
		return
	}
	for _, child := range t.children[node] {
		t.collectVisible(child, depth+1)
	}
}

// line renders the text of a row without styling
func (t TreePanel) line(r row) string {
	prefix := strings.Repeat("  ", r.depth)
	if !r.node.IsDir {
		return prefix + "  " + r.node.Name
	}
	if t.collapsed[r.node] {
		prefix += "▶ " // right triangle
	} else {
		prefix += "▼ " // down triangle
	}
	return prefix + r.node.Name + "/"
}

// Lines returns the text of all visible rows
func (t TreePanel) Lines() []string {
	out := make([]string, len(t.visible))
	for i, r := range t.visible {
		out[i] = t.line(r)
	}
	return out
}

// View renders the tree
func (t TreePanel) View() string {
	style := TreePanelStyle.Width(t.width).Height(t.height)
	if t.focused {
		style = style.BorderForeground(ColorPrimary)
	}
	if t.root == nil {
		return style.Render(LabelStyle.Render("Press space to start scanning"))
	}

	var lines []string
	maxVisible := t.height - 2
	if maxVisible < 1 {
		maxVisible = 1
	}
	maxW := t.width - 2
	if maxW < 1 {
		maxW = 1
	}

	for i := t.offset; i < len(t.visible) && len(lines) < maxVisible; i++ {
		r := t.visible[i]

		var itemStyle lipgloss.Style
		switch {
		case i == t.cursor && t.focused:
			itemStyle = TreeItemSelected.Width(maxW).MaxWidth(maxW)
		case i == t.cursor:
			itemStyle = TreeItemSelectedUnfocused.Width(maxW).MaxWidth(maxW)
		case r.node.IsDir:
			itemStyle = lipgloss.NewStyle().Foreground(ColorDir).MaxWidth(maxW)
		default:
			itemStyle = lipgloss.NewStyle().Foreground(ColorFile).MaxWidth(maxW)
		}
		lines = append(lines, itemStyle.Render(t.line(r)))
	}

	return style.Render(strings.Join(lines, "\n"))
}
