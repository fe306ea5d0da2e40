package widgets

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"blastview/internal/domain"
	"blastview/internal/ui/views"
)

const alignmentWrap = 60

// DetailView shows exactly one HSP. Handles are HSP references; anything
// other than a single handle shows nothing.
type DetailView struct {
	current *domain.HSPRef
	sel     selectionSet[domain.HSPRef]
	width   int
	height  int
	styles  *views.Styles
}

// NewDetailView creates an empty detail view
func NewDetailView(styles *views.Styles) *DetailView {
	return &DetailView{
		sel:    newSelectionSet[domain.HSPRef](),
		width:  60,
		height: 12,
		styles: styles,
	}
}

// Reset drops the shown HSP silently after a data swap
func (d *DetailView) Reset() {
	d.current = nil
	d.sel.reset()
}

// SetSize sets the visible area in cells
func (d *DetailView) SetSize(width, height int) {
	d.width, d.height = width, height
}

// SetSelection implements selection.NativeView
func (d *DetailView) SetSelection(refs []domain.HSPRef) {
	d.current = nil
	if len(refs) == 1 {
		ref := refs[0]
		d.current = &ref
	}
	d.sel.replace(refs)
}

// ClearSelection implements selection.NativeView
func (d *DetailView) ClearSelection() {
	d.current = nil
	d.sel.clear()
}

// OnSelectionChanged implements selection.NativeView
func (d *DetailView) OnSelectionChanged(fn func([]domain.HSPRef)) {
	d.sel.onChange = fn
}

// Current returns the HSP on display
func (d *DetailView) Current() (domain.HSPRef, bool) {
	if d.current == nil {
		return domain.HSPRef{}, false
	}
	return *d.current, true
}

// Update handles keys while the detail view has focus.
// n and p step through the HSPs of the hit on display.
func (d *DetailView) Update(msg tea.KeyMsg) {
	if d.current == nil {
		return
	}
	switch msg.String() {
	case "n", "down", "j":
		d.step(1)
	case "p", "up", "k":
		d.step(-1)
	case "esc":
		d.ClearSelection()
	}
}

func (d *DetailView) step(delta int) {
	hit := d.current.Hit
	for i := range hit.HSPs {
		if &hit.HSPs[i] != d.current.HSP {
			continue
		}
		next := i + delta
		if next < 0 || next >= len(hit.HSPs) {
			return
		}
		d.SetSelection([]domain.HSPRef{{Hit: hit, HSP: &hit.HSPs[next]}})
		return
	}
}

// View renders the HSP summary and the start of its alignment
func (d *DetailView) View() string {
	if d.current == nil {
		return d.styles.Dim.Render("select a single HSP")
	}

	hit, hsp := d.current.Hit, d.current.HSP
	label := d.styles.Label.Render
	value := d.styles.Value.Render
	evalue := lipgloss.NewStyle().Foreground(lipgloss.Color(views.EValueColor(hsp.EValue)))

	var b strings.Builder
	b.WriteString(d.styles.PaneTitle.Render(fmt.Sprintf("%s  HSP %d/%d", hit.Accession, hsp.Num, len(hit.HSPs))))
	b.WriteString("\n")
	if hit.Def != "" {
		b.WriteString(d.styles.Dim.Render(runewidth.Truncate(hit.Def, d.width, "…")))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
		label("bits"), value(fmt.Sprintf("%.1f", hsp.BitScore)),
		label("score"), value(fmt.Sprintf("%d", hsp.Score)),
		label("e"), evalue.Render(fmt.Sprintf("%.2g", hsp.EValue))))
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
		label("ident"), value(fmt.Sprintf("%d/%d (%.0f%%)", hsp.Identity, hsp.AlignLen, hsp.IdentityPercent())),
		label("pos"), value(fmt.Sprintf("%d", hsp.Positive)),
		label("gaps"), value(fmt.Sprintf("%d", hsp.Gaps))))

	lines := strings.Split(AlignmentText(*d.current, d.width-12), "\n")
	room := d.height - 4
	if room < 3 {
		room = 3
	}
	if len(lines) > room {
		lines = append(lines[:room-1], d.styles.Dim.Render("… enter for full alignment"))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// AlignmentText renders the pairwise alignment of ref in blocks of width columns
func AlignmentText(ref domain.HSPRef, width int) string {
	if width <= 0 || width > alignmentWrap {
		width = alignmentWrap
	}
	hsp := ref.HSP
	var b strings.Builder
	qpos, hpos := hsp.QueryFrom, hsp.HitFrom
	qstep, hstep := direction(hsp.QueryFrom, hsp.QueryTo), direction(hsp.HitFrom, hsp.HitTo)

	for start := 0; start < len(hsp.QSeq); start += width {
		end := start + width
		if end > len(hsp.QSeq) {
			end = len(hsp.QSeq)
		}
		q := hsp.QSeq[start:end]
		h := sliceOf(hsp.HSeq, start, end)
		m := sliceOf(hsp.Midline, start, end)

		qend := qpos + qstep*(residues(q)-1)
		hend := hpos + hstep*(residues(h)-1)
		if start > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Query %5d %s %d\n", qpos, q, qend)
		fmt.Fprintf(&b, "            %s\n", m)
		fmt.Fprintf(&b, "Sbjct %5d %s %d\n", hpos, h, hend)
		qpos = qend + qstep
		hpos = hend + hstep
	}
	return strings.TrimRight(b.String(), "\n")
}

func residues(s string) int {
	return len(s) - strings.Count(s, "-")
}

func direction(from, to int) int {
	if from > to {
		return -1
	}
	return 1
}

func sliceOf(s string, start, end int) string {
	if start >= len(s) {
		return ""
	}
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
