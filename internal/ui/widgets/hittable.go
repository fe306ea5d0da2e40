package widgets

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"blastview/internal/domain"
	"blastview/internal/ui/views"
)

// HitRow is one HSP line of the hit table
type HitRow struct {
	Accession   string
	HSPNum      int
	Description string
	BitScore    float64
	EValue      float64
	Identity    float64
}

// HitRowsFrom converts HSP references into table rows
func HitRowsFrom(refs []domain.HSPRef) []HitRow {
	rows := make([]HitRow, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, HitRow{
			Accession:   ref.Hit.Accession,
			HSPNum:      ref.HSP.Num,
			Description: ref.Hit.Def,
			BitScore:    ref.HSP.BitScore,
			EValue:      ref.HSP.EValue,
			Identity:    ref.HSP.IdentityPercent(),
		})
	}
	return rows
}

// HitTable is the tabular hit list. Handles are row indices.
// Moving the cursor selects the row under it; shift+move extends the
// selection and space toggles the cursor row.
type HitTable struct {
	table table.Model
	rows  []HitRow
	sel   selectionSet[int]
}

// NewHitTable creates an empty hit table
func NewHitTable(styles *views.Styles) *HitTable {
	t := table.New(
		table.WithColumns(hitColumns(60)),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Selected = styles.Cursor
	t.SetStyles(ts)

	return &HitTable{
		table: t,
		sel:   newSelectionSet[int](),
	}
}

func hitColumns(descWidth int) []table.Column {
	if descWidth < 10 {
		descWidth = 10
	}
	return []table.Column{
		{Title: " ", Width: 1},
		{Title: "Accession", Width: 14},
		{Title: "HSP", Width: 3},
		{Title: "Description", Width: descWidth},
		{Title: "Bits", Width: 7},
		{Title: "E-value", Width: 9},
		{Title: "Ident", Width: 6},
	}
}

// SetRows swaps the table's data. The selection is dropped silently; the
// owner is expected to rebuild its index and resynchronize.
func (h *HitTable) SetRows(rows []HitRow) {
	h.rows = rows
	h.sel.reset()
	h.refresh()
	h.table.SetCursor(0)
}

// Rows returns the current rows
func (h *HitTable) Rows() []HitRow {
	return h.rows
}

// SetSize sets the table's outer dimensions
func (h *HitTable) SetSize(width, height int) {
	fixed := 1 + 14 + 3 + 7 + 9 + 6 + 2*7
	h.table.SetColumns(hitColumns(width - fixed))
	h.table.SetWidth(width)
	h.table.SetHeight(height)
	h.refresh()
}

// SetSelection implements selection.NativeView
func (h *HitTable) SetSelection(rows []int) {
	valid := make([]int, 0, len(rows))
	for _, r := range rows {
		if r >= 0 && r < len(h.rows) {
			valid = append(valid, r)
		}
	}
	h.sel.replace(valid)
	h.refresh()
}

// ClearSelection implements selection.NativeView
func (h *HitTable) ClearSelection() {
	h.sel.clear()
	h.refresh()
}

// OnSelectionChanged implements selection.NativeView
func (h *HitTable) OnSelectionChanged(fn func([]int)) {
	h.sel.onChange = fn
}

// ScrollTo moves the cursor to row, which scrolls it into view
func (h *HitTable) ScrollTo(row int) {
	if row >= 0 && row < len(h.rows) {
		h.table.SetCursor(row)
	}
}

// Selected returns the selected rows
func (h *HitTable) Selected() []int {
	return h.sel.list()
}

// Cursor returns the cursor row
func (h *HitTable) Cursor() int {
	return h.table.Cursor()
}

// Focus and Blur toggle keyboard focus
func (h *HitTable) Focus() { h.table.Focus() }
func (h *HitTable) Blur()  { h.table.Blur() }

// Update handles keys while the table has focus
func (h *HitTable) Update(msg tea.KeyMsg) {
	if len(h.rows) == 0 {
		return
	}
	switch msg.String() {
	case "up", "k":
		h.table.MoveUp(1)
		h.selectCursor()
	case "down", "j":
		h.table.MoveDown(1)
		h.selectCursor()
	case "shift+up", "K":
		h.table.MoveUp(1)
		h.sel.add(h.table.Cursor())
		h.refresh()
	case "shift+down", "J":
		h.table.MoveDown(1)
		h.sel.add(h.table.Cursor())
		h.refresh()
	case "pgup":
		h.table.MoveUp(h.table.Height())
		h.selectCursor()
	case "pgdown":
		h.table.MoveDown(h.table.Height())
		h.selectCursor()
	case "home", "g":
		h.table.GotoTop()
		h.selectCursor()
	case "end", "G":
		h.table.GotoBottom()
		h.selectCursor()
	case " ":
		h.sel.toggle(h.table.Cursor())
		h.refresh()
	case "esc":
		h.ClearSelection()
	}
}

func (h *HitTable) selectCursor() {
	h.SetSelection([]int{h.table.Cursor()})
}

// View renders the table
func (h *HitTable) View() string {
	return h.table.View()
}

func (h *HitTable) refresh() {
	rows := make([]table.Row, len(h.rows))
	// Cells are truncated by width, so they stay unstyled
	for i, r := range h.rows {
		mark := " "
		if h.sel.contains(i) {
			mark = "●"
		}
		rows[i] = table.Row{
			mark,
			r.Accession,
			fmt.Sprintf("%d", r.HSPNum),
			r.Description,
			fmt.Sprintf("%.1f", r.BitScore),
			fmt.Sprintf("%.2g", r.EValue),
			fmt.Sprintf("%.0f%%", r.Identity),
		}
	}
	h.table.SetRows(rows)
}
