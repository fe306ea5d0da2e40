package widgets

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"blastview/internal/tree"
	"blastview/internal/ui/views"
)

// TreeView shows the hit tree. Handles are tree nodes.
type TreeView struct {
	root     *tree.Node
	expanded map[*tree.Node]bool
	visible  []*tree.Node
	sel      selectionSet[*tree.Node]
	cursor   int
	offset   int
	width    int
	height   int
	styles   *views.Styles
}

// NewTreeView creates an empty tree view
func NewTreeView(styles *views.Styles) *TreeView {
	return &TreeView{
		expanded: make(map[*tree.Node]bool),
		sel:      newSelectionSet[*tree.Node](),
		width:    40,
		height:   10,
		styles:   styles,
	}
}

// SetRoot swaps the tree and drops the selection silently.
// The root and its hit nodes start expanded.
func (t *TreeView) SetRoot(root *tree.Node) {
	t.root = root
	t.expanded = make(map[*tree.Node]bool)
	t.sel.reset()
	t.cursor, t.offset = 0, 0
	if root != nil {
		t.expanded[root] = true
		for _, c := range root.Children {
			t.expanded[c] = true
		}
	}
	t.flatten()
}

// Root returns the current tree
func (t *TreeView) Root() *tree.Node {
	return t.root
}

// SetSize sets the visible area in cells
func (t *TreeView) SetSize(width, height int) {
	t.width, t.height = width, height
	t.ensureVisible()
}

// SetSelection implements selection.NativeView
func (t *TreeView) SetSelection(nodes []*tree.Node) {
	t.sel.replace(nodes)
}

// ClearSelection implements selection.NativeView
func (t *TreeView) ClearSelection() {
	t.sel.clear()
}

// OnSelectionChanged implements selection.NativeView
func (t *TreeView) OnSelectionChanged(fn func([]*tree.Node)) {
	t.sel.onChange = fn
}

// ScrollTo expands the ancestors of n and moves the cursor onto it
func (t *TreeView) ScrollTo(n *tree.Node) {
	if n == nil {
		return
	}
	for _, a := range n.Ancestors() {
		t.expanded[a] = true
	}
	t.flatten()
	for i, v := range t.visible {
		if v == n {
			t.cursor = i
			t.ensureVisible()
			return
		}
	}
}

// Selected returns the selected nodes
func (t *TreeView) Selected() []*tree.Node {
	return t.sel.list()
}

// CursorNode returns the node under the cursor
func (t *TreeView) CursorNode() *tree.Node {
	if t.cursor < 0 || t.cursor >= len(t.visible) {
		return nil
	}
	return t.visible[t.cursor]
}

// Visible returns the nodes currently shown, top to bottom
func (t *TreeView) Visible() []*tree.Node {
	return t.visible
}

// Update handles keys while the tree has focus
func (t *TreeView) Update(msg tea.KeyMsg) {
	if len(t.visible) == 0 {
		return
	}
	switch msg.String() {
	case "up", "k":
		t.moveTo(t.cursor - 1)
	case "down", "j":
		t.moveTo(t.cursor + 1)
	case "shift+up", "K":
		t.extendTo(t.cursor - 1)
	case "shift+down", "J":
		t.extendTo(t.cursor + 1)
	case "home", "g":
		t.moveTo(0)
	case "end", "G":
		t.moveTo(len(t.visible) - 1)
	case "left", "h":
		t.collapse()
	case "right", "l":
		t.expand()
	case " ":
		t.sel.toggle(t.visible[t.cursor])
	case "esc":
		t.ClearSelection()
	}
}

func (t *TreeView) moveTo(i int) {
	t.cursor = clamp(i, len(t.visible))
	t.ensureVisible()
	t.SetSelection([]*tree.Node{t.visible[t.cursor]})
}

func (t *TreeView) extendTo(i int) {
	t.cursor = clamp(i, len(t.visible))
	t.ensureVisible()
	t.sel.add(t.visible[t.cursor])
}

func (t *TreeView) expand() {
	n := t.CursorNode()
	if n == nil || len(n.Children) == 0 {
		return
	}
	t.expanded[n] = true
	t.flatten()
}

func (t *TreeView) collapse() {
	n := t.CursorNode()
	if n == nil {
		return
	}
	if len(n.Children) == 0 || !t.expanded[n] {
		// Jump to the parent like most tree widgets do
		if n.Parent != nil {
			n = n.Parent
		}
	}
	t.expanded[n] = false
	t.flatten()
	for i, v := range t.visible {
		if v == n {
			t.cursor = i
			break
		}
	}
	t.ensureVisible()
}

func (t *TreeView) flatten() {
	t.visible = t.visible[:0]
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		t.visible = append(t.visible, n)
		if !t.expanded[n] {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if t.root != nil {
		walk(t.root)
	}
	if t.cursor >= len(t.visible) {
		t.cursor = len(t.visible) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *TreeView) ensureVisible() {
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.height > 0 && t.cursor >= t.offset+t.height {
		t.offset = t.cursor - t.height + 1
	}
}

// View renders the visible part of the tree
func (t *TreeView) View() string {
	if len(t.visible) == 0 {
		return t.styles.Dim.Render("no tree")
	}

	var b strings.Builder
	end := t.offset + t.height
	if end > len(t.visible) {
		end = len(t.visible)
	}
	for i := t.offset; i < end; i++ {
		n := t.visible[i]
		icon := "  "
		switch {
		case len(n.Children) > 0 && t.expanded[n]:
			icon = "▼ "
		case len(n.Children) > 0:
			icon = "▶ "
		}
		mark := " "
		if t.sel.contains(n) {
			mark = "●"
		}
		line := mark + " " + strings.Repeat("  ", n.Depth()) + icon + n.Label
		line = runewidth.Truncate(line, t.width, "…")
		b.WriteString(t.styles.Row(i == t.cursor, t.sel.contains(n)).Render(line))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
