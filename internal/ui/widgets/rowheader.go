package widgets

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"blastview/internal/msa"
	"blastview/internal/ui/views"
)

const labelWidth = 18

// RowHeader is the MSA grid with its row-header column. Handles are row
// indices into the layout, including the query and consensus pseudo-rows.
type RowHeader struct {
	layout msa.Layout
	sel    selectionSet[int]
	cursor int
	offset int
	column int
	width  int
	height int
	styles *views.Styles
}

// NewRowHeader creates an empty MSA view
func NewRowHeader(styles *views.Styles) *RowHeader {
	return &RowHeader{
		sel:    newSelectionSet[int](),
		width:  80,
		height: 8,
		styles: styles,
	}
}

// SetLayout swaps the grid data and drops the selection silently
func (r *RowHeader) SetLayout(l msa.Layout) {
	r.layout = l
	r.sel.reset()
	r.cursor, r.offset, r.column = 0, 0, 0
}

// Layout returns the current grid
func (r *RowHeader) Layout() msa.Layout {
	return r.layout
}

// SetSize sets the visible area in cells
func (r *RowHeader) SetSize(width, height int) {
	r.width, r.height = width, height
	r.ensureVisible()
}

// SetSelection implements selection.NativeView
func (r *RowHeader) SetSelection(rows []int) {
	valid := make([]int, 0, len(rows))
	for _, row := range rows {
		if row >= 0 && row < len(r.layout.Rows) {
			valid = append(valid, row)
		}
	}
	r.sel.replace(valid)
}

// ClearSelection implements selection.NativeView
func (r *RowHeader) ClearSelection() {
	r.sel.clear()
}

// OnSelectionChanged implements selection.NativeView
func (r *RowHeader) OnSelectionChanged(fn func([]int)) {
	r.sel.onChange = fn
}

// ScrollTo moves the cursor to row and scrolls it into view
func (r *RowHeader) ScrollTo(row int) {
	if row < 0 || row >= len(r.layout.Rows) {
		return
	}
	r.cursor = row
	r.ensureVisible()
}

// Selected returns the selected rows
func (r *RowHeader) Selected() []int {
	return r.sel.list()
}

// Cursor returns the cursor row
func (r *RowHeader) Cursor() int {
	return r.cursor
}

// Update handles keys while the grid has focus
func (r *RowHeader) Update(msg tea.KeyMsg) {
	n := len(r.layout.Rows)
	if n == 0 {
		return
	}
	switch msg.String() {
	case "up", "k":
		r.moveTo(r.cursor - 1)
	case "down", "j":
		r.moveTo(r.cursor + 1)
	case "shift+up", "K":
		r.extendTo(r.cursor - 1)
	case "shift+down", "J":
		r.extendTo(r.cursor + 1)
	case "home", "g":
		r.moveTo(0)
	case "end", "G":
		r.moveTo(n - 1)
	case "left", "h":
		r.scrollColumns(-10)
	case "right", "l":
		r.scrollColumns(10)
	case " ":
		r.sel.toggle(r.cursor)
	case "esc":
		r.ClearSelection()
	}
}

func (r *RowHeader) moveTo(row int) {
	r.cursor = clamp(row, len(r.layout.Rows))
	r.ensureVisible()
	r.SetSelection([]int{r.cursor})
}

func (r *RowHeader) extendTo(row int) {
	r.cursor = clamp(row, len(r.layout.Rows))
	r.ensureVisible()
	r.sel.add(r.cursor)
}

func (r *RowHeader) scrollColumns(delta int) {
	r.column += delta
	if limit := r.layout.Width - r.gridWidth(); r.column > limit {
		r.column = limit
	}
	if r.column < 0 {
		r.column = 0
	}
}

func (r *RowHeader) gridWidth() int {
	w := r.width - labelWidth - 3
	if w < 1 {
		w = 1
	}
	return w
}

func (r *RowHeader) ensureVisible() {
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.height > 0 && r.cursor >= r.offset+r.height {
		r.offset = r.cursor - r.height + 1
	}
}

// View renders the visible rows
func (r *RowHeader) View() string {
	if len(r.layout.Rows) == 0 {
		return r.styles.Dim.Render("no alignment")
	}

	var b strings.Builder
	end := r.offset + r.height
	if end > len(r.layout.Rows) {
		end = len(r.layout.Rows)
	}
	gw := r.gridWidth()

	for i := r.offset; i < end; i++ {
		row := r.layout.Rows[i]
		mark := " "
		if r.sel.contains(i) {
			mark = "●"
		}
		label := runewidth.FillRight(runewidth.Truncate(row.Label, labelWidth, "…"), labelWidth)
		style := r.styles.Row(i == r.cursor, r.sel.contains(i))
		if !row.HasKey() && i != r.cursor && !r.sel.contains(i) {
			style = r.styles.Pseudo
		}

		from := r.column
		to := from + gw
		if to > len(row.Seq) {
			to = len(row.Seq)
		}
		seq := ""
		if from < to {
			seq = string(row.Seq[from:to])
		}

		b.WriteString(style.Render(mark + " " + label))
		b.WriteString(" ")
		b.WriteString(seq)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
